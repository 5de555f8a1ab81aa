package io

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/httputil"
)

// Source reads dataset files by slash-separated relative path. A missing
// file is reported as an ErrCodeFileNotFound error.
type Source interface {
	ReadFile(ctx context.Context, rel string) ([]byte, error)
	String() string
}

// NewSource returns an [HTTPSource] for http(s) locations and a
// [DirSource] for everything else. client may be nil for local sources.
func NewSource(location string, client *httputil.Client) (Source, error) {
	if errors.IsURL(location) {
		if err := errors.ValidateURL(location); err != nil {
			return nil, err
		}
		if client == nil {
			client = httputil.NewClient(nil, nil, 0, nil)
		}
		return &HTTPSource{Base: location, Client: client}, nil
	}
	if location == "" {
		location = "."
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset directory %s", location)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", location)
	}
	return DirSource{Dir: location}, nil
}

// DirSource reads from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) ReadFile(_ context.Context, rel string) ([]byte, error) {
	if err := errors.ValidatePath(rel); err != nil {
		return nil, err
	}
	p := filepath.Join(s.Dir, filepath.FromSlash(rel))
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", p)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", p)
	}
	return data, nil
}

func (s DirSource) String() string { return s.Dir }

// HTTPSource fetches below a base URL.
type HTTPSource struct {
	Base    string
	Client  *httputil.Client
	Refresh bool
}

func (s *HTTPSource) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	if err := errors.ValidatePath(rel); err != nil {
		return nil, err
	}
	u, err := url.Parse(s.Base)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "dataset URL %s", s.Base)
	}
	u.Path = path.Join("/", strings.TrimSuffix(u.Path, "/"), rel)
	return s.Client.Fetch(ctx, u.String(), s.Refresh)
}

func (s *HTTPSource) String() string { return s.Base }

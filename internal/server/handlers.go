package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/buildinfo"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handlePlanets(w http.ResponseWriter, r *http.Request) {
	a, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	planets := make([]*atlas.Planet, 0, len(a.Planets))
	for _, name := range a.PlanetNames() {
		planets = append(planets, a.Planets[name])
	}
	writeJSON(w, http.StatusOK, planets)
}

func (s *Server) handleLeylines(w http.ResponseWriter, r *http.Request) {
	a, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	leylines := make([]*atlas.Leyline, 0, len(a.Leylines))
	for _, id := range a.LeylineIDs() {
		leylines = append(leylines, a.Leylines[id])
	}
	writeJSON(w, http.StatusOK, leylines)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, err := s.runLayout(r, pipeline.FormatJSON)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Layout)
}

func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	res, err := s.runLayout(r, pipeline.FormatSVG)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSVG(w, res.Artifacts[pipeline.FormatSVG])
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	res, err := s.runPath(r, pipeline.FormatJSON)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Route)
}

func (s *Server) handlePathSVG(w http.ResponseWriter, r *http.Request) {
	res, err := s.runPath(r, pipeline.FormatSVG)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSVG(w, res.RouteArtifacts[pipeline.FormatSVG])
}

func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	store, err := s.archive()
	if err != nil {
		writeError(w, err)
		return
	}
	limit := archive.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit <= 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
	}
	list, err := store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	store, err := s.archive()
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Request Parsing
// =============================================================================

func (s *Server) archive() (archive.Store, error) {
	if s.runner.Archive == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "archive is not enabled on this server")
	}
	return s.runner.Archive, nil
}

func (s *Server) load(r *http.Request) (*atlas.Atlas, error) {
	opts := s.defaults
	q := r.URL.Query()
	if tf := q.Get("timeframe"); tf != "" {
		opts.Timeframe = tf
	}
	if err := applyFilters(&opts, q); err != nil {
		return nil, err
	}
	a, _, err := s.runner.Load(r.Context(), opts)
	return a, err
}

func (s *Server) runLayout(r *http.Request, format string) (*pipeline.Result, error) {
	opts := s.defaults
	opts.From, opts.To = "", ""
	q := r.URL.Query()
	if v := q.Get("focus"); v != "" {
		opts.Focus = v
	}
	if opts.Focus == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "focus is required")
	}
	if err := applyCommon(&opts, q); err != nil {
		return nil, err
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"dedupe", &opts.NoDuplicates},
		{"same_planet", &opts.SamePlanetArcs},
		{"archive", &opts.Archive},
	}
	for _, f := range flags {
		if err := parseBool(q, f.name, f.dst); err != nil {
			return nil, err
		}
	}
	inscribed := !opts.SkipInscribed
	if err := parseBool(q, "inscribed", &inscribed); err != nil {
		return nil, err
	}
	opts.SkipInscribed = !inscribed

	opts.Formats = []string{format}
	return s.runner.Execute(r.Context(), opts)
}

func (s *Server) runPath(r *http.Request, format string) (*pipeline.Result, error) {
	opts := s.defaults
	opts.Focus = ""
	opts.Archive = false
	q := r.URL.Query()
	opts.From = q.Get("planetA")
	opts.To = q.Get("planetB")
	if opts.From == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "planetA is required")
	}
	if err := applyCommon(&opts, q); err != nil {
		return nil, err
	}
	opts.Formats = []string{format}
	return s.runner.Execute(r.Context(), opts)
}

// applyCommon reads the dataset, filter and render parameters.
func applyCommon(opts *pipeline.Options, q url.Values) error {
	if tf := q.Get("timeframe"); tf != "" {
		opts.Timeframe = tf
	}
	if err := applyFilters(opts, q); err != nil {
		return err
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	return parseBool(q, "labels", &opts.DistanceLabels)
}

func applyFilters(opts *pipeline.Options, q url.Values) error {
	if err := parseBool(q, "theater", &opts.TheaterOnly); err != nil {
		return err
	}
	if err := parseBool(q, "multigate", &opts.MultigateOnly); err != nil {
		return err
	}
	if v := q.Get("hidden"); v != "" {
		opts.Hidden = strings.Split(v, ",")
	}
	return nil
}

// parseBool sets *dst from the named parameter when present.
func parseBool(q url.Values, name string, dst *bool) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid %s=%q (want true or false)", name, v)
	}
	*dst = b
	return nil
}

package render

import (
	"bytes"
	"os/exec"
	"strconv"
	"sync"

	"github.com/matzehuels/leymap/pkg/errors"
)

const rsvgBinary = "rsvg-convert"

// rsvgPath resolves rsvg-convert once per process.
var rsvgPath = sync.OnceValues(func() (string, error) {
	return exec.LookPath(rsvgBinary)
})

// ToPDF converts SVG bytes to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG with rsvg-convert. A scale of 2 doubles
// the resolution; non-positive scales render at 1x.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// Available reports whether PDF and PNG conversion can run on this host.
func Available() bool {
	_, err := rsvgPath()
	return err == nil
}

func rsvgConvert(svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := rsvgPath()
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export needs %s (brew install librsvg, or apt install librsvg2-bin)", format, rsvgBinary)
	}

	cmd := exec.Command(bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &out, &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgBinary, bytes.TrimSpace(stderr.Bytes()))
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "%s produced no %s output", rsvgBinary, format)
	}
	return out.Bytes(), nil
}

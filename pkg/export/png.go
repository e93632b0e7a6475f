package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
)

// RenderPNG draws d as SVG and rasterizes it with rsvg-convert at the
// configured scale (2x by default).
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, d diagram.Diagram, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	svg, err := RenderSVG(d, opts...)
	if err != nil {
		return Document{}, err
	}
	data, err := rsvgConvert(ctx, svg.Data, FormatPNG, "-z", fmt.Sprintf("%.2f", cfg.scale))
	if err != nil {
		return Document{}, err
	}
	return Document{
		Format:      FormatPNG,
		Filename:    Filename(cfg.filename, FormatPNG),
		Data:        data,
		Width:       svg.Width * cfg.scale,
		Height:      svg.Height * cfg.scale,
		Orientation: svg.Orientation,
	}, nil
}

// RSVGAvailable reports whether rsvg-convert is on PATH.
func RSVGAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !RSVGAvailable() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}

package pipeline

import (
	"testing"

	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/config"
	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/export"
	"github.com/matzehuels/panelmap/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"docx", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"pdf", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"pdf", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"graphviz", false},
		{"tree", false},
		{"neato", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestSetBuildDefaults(t *testing.T) {
	opts := Options{}
	opts.SetBuildDefaults()

	if opts.Engine != layout.EngineGraphviz {
		t.Errorf("Engine should be %s, got %s", layout.EngineGraphviz, opts.Engine)
	}
	if opts.Direction != diagram.LeftToRight {
		t.Errorf("Direction should be LR, got %s", opts.Direction)
	}
	if opts.RankSep != layout.DefaultRankSep || opts.NodeSep != layout.DefaultNodeSep {
		t.Errorf("spacing should be %v/%v, got %v/%v",
			layout.DefaultRankSep, layout.DefaultNodeSep, opts.RankSep, opts.NodeSep)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetExportDefaults(t *testing.T) {
	opts := Options{}
	opts.SetExportDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPDF {
		t.Errorf("Formats should be [pdf], got %v", opts.Formats)
	}
	if opts.Padding == nil || *opts.Padding != export.Padding {
		t.Errorf("Padding should be %v, got %v", export.Padding, opts.Padding)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestZeroPaddingIsKept(t *testing.T) {
	zero := 0.0
	opts := Options{Padding: &zero}
	opts.SetExportDefaults()
	if *opts.Padding != 0 {
		t.Errorf("explicit zero padding replaced with %v", *opts.Padding)
	}
}

func TestOptionsValidateForBuild(t *testing.T) {
	opts := Options{Engine: "neato"}
	if err := opts.ValidateForBuild(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown engine: err = %v", err)
	}

	opts = Options{Direction: "RL"}
	if err := opts.ValidateForBuild(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad direction: err = %v", err)
	}

	opts = Options{RankSep: -1}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("negative spacing should fail")
	}
}

func TestOptionsValidateForExport(t *testing.T) {
	neg := -5.0
	opts := Options{Padding: &neg}
	if err := opts.ValidateForExport(); err == nil {
		t.Error("negative padding should fail")
	}

	opts = Options{Formats: []string{"pdf", "gif"}}
	if err := opts.ValidateForExport(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v", err)
	}

	for _, name := range []string{"../escaped", "out/map", `out\map`} {
		opts = Options{Filename: name}
		if err := opts.ValidateForExport(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("filename %q: err = %v, want INVALID_INPUT", name, err)
		}
	}
	opts = Options{Filename: "panel"}
	if err := opts.ValidateForExport(); err != nil {
		t.Errorf("plain filename: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Engine: layout.EngineTree}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalEngine := opts.Engine
	originalFormats := len(opts.Formats)

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Engine != originalEngine {
		t.Error("Engine changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Engine = layout.EngineTree
	cfg.Layout.Normalize = false
	cfg.Export.Padding = 0
	cfg.Export.Formats = []string{"svg"}

	opts := FromConfig(cfg)
	if opts.Engine != layout.EngineTree || !opts.SkipNormalize {
		t.Errorf("build options = %+v", opts)
	}
	if opts.Padding == nil || *opts.Padding != 0 {
		t.Errorf("padding = %v", opts.Padding)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("formats = %v", opts.Formats)
	}
	if opts.TTL != cfg.Cache.TTL.Duration {
		t.Errorf("ttl = %v", opts.TTL)
	}
}

func TestKeyOptsSeparateConfigurations(t *testing.T) {
	k := cache.NewDefaultKeyer()
	base := Options{}
	base.SetBuildDefaults()
	base.SetExportDefaults()

	tb := base
	tb.Direction = diagram.TopToBottom
	if k.DiagramKey("t", base.DiagramKeyOpts()) == k.DiagramKey("t", tb.DiagramKeyOpts()) {
		t.Error("direction does not change the diagram key")
	}

	raw := base
	raw.SkipNormalize = true
	if k.DiagramKey("t", base.DiagramKeyOpts()) == k.DiagramKey("t", raw.DiagramKeyOpts()) {
		t.Error("normalization does not change the diagram key")
	}

	// Scale only matters for PNG.
	scaled := base
	scaled.Scale = 4
	if k.ArtifactKey("d", base.ArtifactKeyOpts("pdf")) != k.ArtifactKey("d", scaled.ArtifactKeyOpts("pdf")) {
		t.Error("scale changes the pdf key")
	}
	if k.ArtifactKey("d", base.ArtifactKeyOpts("png")) == k.ArtifactKey("d", scaled.ArtifactKeyOpts("png")) {
		t.Error("scale does not change the png key")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load with missing file = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_MergesOverFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	doc := "width: 1280\nheight: 720\nmax_passes: 9\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 || cfg.MaxPasses != 9 {
		t.Errorf("Load = %+v, want width=1280 height=720 max_passes=9", cfg)
	}
	if cfg.SamplesPerPixel != Default().SamplesPerPixel {
		t.Errorf("Load should leave unset fields at their default, got SamplesPerPixel=%d", cfg.SamplesPerPixel)
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(RendererConfig) bool
	}{
		{"single key", "width=1920", false, func(c RendererConfig) bool { return c.Width == 1920 }},
		{"comma separated", "width=1920,height=1080", false, func(c RendererConfig) bool { return c.Width == 1920 && c.Height == 1080 }},
		{"bool field", "debug=true", false, func(c RendererConfig) bool { return c.Debug }},
		{"float field", "adaptive_threshold=0.05", false, func(c RendererConfig) bool { return c.AdaptiveThreshold == 0.05 }},
		{"string field", "integrator=bdpt", false, func(c RendererConfig) bool { return c.Integrator == "bdpt" }},
		{"empty is a no-op", "", false, func(c RendererConfig) bool { return c == Default() }},
		{"missing equals", "width", true, nil},
		{"unknown key", "frobnicate=1", true, nil},
		{"non-integer", "width=abc", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyOverrides(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyOverrides(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && tt.check != nil && !tt.check(cfg) {
				t.Errorf("ApplyOverrides(%q) produced %+v, check failed", tt.raw, cfg)
			}
		})
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/dwgdraw/dispatch"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
target_2d: true
regen: render
viewport: 77
codepage: cp1252
extents: [[0, 0], [10, 10, 0]]
cache_size: "64"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Target2d || cfg.Regen != "render" || cfg.Viewport != 77 || cfg.Codepage != "cp1252" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want 64 from a weakly typed string", cfg.CacheSize)
	}
	opts, err := cfg.options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	// target, regen, materials, viewport, codepage, cache, extents
	if len(opts) != 7 {
		t.Errorf("got %d options, want 7", len(opts))
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key": "regen: standard\ncolour: red\n",
		"bad yaml":    "regen: [",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, "cfg.yaml", src)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	cfg, err := loadConfig("")
	if err != nil || cfg.Regen != "" || cfg.Extents != nil {
		t.Errorf(`loadConfig("") = %+v, %v`, cfg, err)
	}
}

func TestConfigOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"regen", Config{Regen: "wireframe"}},
		{"one extents point", Config{Extents: [][]float64{{0, 0}}}},
		{"short point", Config{Extents: [][]float64{{0}, {1, 1}}}},
	}
	for _, tt := range tests {
		if _, err := tt.cfg.options(); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestParseRegen(t *testing.T) {
	tests := map[string]dispatch.RegenType{
		"":              dispatch.RegenStandard,
		"Standard":      dispatch.RegenStandard,
		"hide-or-shade": dispatch.RegenHideOrShade,
		"hide":          dispatch.RegenHideOrShade,
		"render":        dispatch.RegenRender,
	}
	for in, want := range tests {
		got, err := parseRegen(in)
		if err != nil || got != want {
			t.Errorf("parseRegen(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

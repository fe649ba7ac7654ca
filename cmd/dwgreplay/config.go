package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
)

// Config holds the dispatcher settings read from --config.
type Config struct {
	Target2d          bool        `mapstructure:"target_2d"`
	Regen             string      `mapstructure:"regen"`
	Viewport          uint64      `mapstructure:"viewport"`
	Codepage          string      `mapstructure:"codepage"`
	Extents           [][]float64 `mapstructure:"extents"`
	CacheSize         int         `mapstructure:"cache_size"`
	MaterialOverrides bool        `mapstructure:"material_overrides"`
}

// loadConfig reads the config file at path. An empty path yields the
// zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := decodeConfig(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func parseRegen(s string) (dispatch.RegenType, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return dispatch.RegenStandard, nil
	case "hide-or-shade", "hide":
		return dispatch.RegenHideOrShade, nil
	case "render":
		return dispatch.RegenRender, nil
	default:
		return 0, fmt.Errorf("unknown regen type %q", s)
	}
}

func configPoint(v []float64) (dwgdraw.Point3, error) {
	switch len(v) {
	case 2:
		return dwgdraw.Pt(v[0], v[1], 0), nil
	case 3:
		return dwgdraw.Pt(v[0], v[1], v[2]), nil
	default:
		return dwgdraw.Point3{}, fmt.Errorf("extents point needs 2 or 3 coordinates, got %d", len(v))
	}
}

// options converts the config to dispatcher options.
func (c Config) options() ([]dispatch.Option, error) {
	regen, err := parseRegen(c.Regen)
	if err != nil {
		return nil, err
	}
	opts := []dispatch.Option{
		dispatch.WithTarget2d(c.Target2d),
		dispatch.WithRegenType(regen),
		dispatch.WithMaterialOverrides(c.MaterialOverrides),
	}
	if c.Viewport != 0 {
		opts = append(opts, dispatch.WithViewport(dwgdraw.ObjectID(c.Viewport)))
	}
	if c.Codepage != "" {
		opts = append(opts, dispatch.WithCodepage(c.Codepage))
	}
	if c.CacheSize > 0 {
		opts = append(opts, dispatch.WithCategoryCacheSize(c.CacheSize))
	}
	switch len(c.Extents) {
	case 0:
	case 2:
		lo, err := configPoint(c.Extents[0])
		if err != nil {
			return nil, err
		}
		hi, err := configPoint(c.Extents[1])
		if err != nil {
			return nil, err
		}
		opts = append(opts, dispatch.WithExtents(lo, hi))
	default:
		return nil, fmt.Errorf("extents needs a low and a high point, got %d points", len(c.Extents))
	}
	return opts, nil
}

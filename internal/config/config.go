// Package config reads the renderer configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	mandel "github.com/marben/mandelzoom"
)

// Config is the on-disk configuration.
type Config struct {
	MaxIter         int      `json:"maxIter"`
	Workers         int      `json:"workers"`
	AllowDistortion bool     `json:"allowDistortion"`
	Palette         []string `json:"palette"` // interior, escape-even, escape-odd
}

// Default returns the configuration written on first start.
func Default() Config {
	hex := mandel.DefaultPalette.Hex()
	return Config{
		MaxIter: mandel.DefaultMaxIter,
		Workers: 0,
		Palette: hex[:],
	}
}

// Load reads the config at path. When the file does not exist the
// defaults are written there and returned.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := Default()
		if err := c.Save(path); err != nil {
			log.Printf("config: writing defaults to %s: %v", path, err)
		}
		return c, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderSettings converts c, reporting mandel.ErrInvalidSettings for a
// bad iteration limit or palette.
func (c Config) RenderSettings() (mandel.RenderSettings, error) {
	p, err := mandel.ParsePalette(c.Palette)
	if err != nil {
		return mandel.RenderSettings{}, err
	}
	rs := mandel.RenderSettings{
		MaxIter:         c.MaxIter,
		Palette:         p,
		Workers:         c.Workers,
		AllowDistortion: c.AllowDistortion,
	}
	if err := rs.Validate(); err != nil {
		return mandel.RenderSettings{}, err
	}
	return rs, nil
}

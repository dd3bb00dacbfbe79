// Package viewstore persists the viewport and render settings as decimal
// text in a key-value store.
package viewstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	mandel "github.com/marben/mandelzoom"
)

const stateFile = "state.json"

// Keys under which the state is stored.
const (
	KeyXmin       = "xmin"
	KeyYmin       = "ymin"
	KeyXmax       = "xmax"
	KeyYmax       = "ymax"
	KeyMaxIter    = "maxIter"
	KeyInterior   = "colorInterior"
	KeyEscapeEven = "colorEscapeEven"
	KeyEscapeOdd  = "colorEscapeOdd"
)

// KV is a string key-value store.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// ReadViewport decodes the viewport bounds from kv.
// ok is false when no bounds are stored at all.
func ReadViewport(kv KV) (v mandel.Viewport, ok bool, err error) {
	keys := [4]string{KeyXmin, KeyYmin, KeyXmax, KeyYmax}
	var vals [4]float64
	found := 0
	for i, k := range keys {
		s, present := kv.Get(k)
		if !present {
			continue
		}
		found++
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return mandel.Viewport{}, false, fmt.Errorf("stored %s: %w", k, err)
		}
		vals[i] = f
	}
	switch found {
	case 0:
		return mandel.Viewport{}, false, nil
	case len(keys):
		return mandel.Viewport{Xmin: vals[0], Ymin: vals[1], Xmax: vals[2], Ymax: vals[3]}, true, nil
	}
	return mandel.Viewport{}, false, fmt.Errorf("stored viewport incomplete: %d of %d bounds", found, len(keys))
}

// WriteViewport stores the four bounds of v in kv.
func WriteViewport(kv KV, v mandel.Viewport) {
	kv.Set(KeyXmin, formatFloat(v.Xmin))
	kv.Set(KeyYmin, formatFloat(v.Ymin))
	kv.Set(KeyXmax, formatFloat(v.Xmax))
	kv.Set(KeyYmax, formatFloat(v.Ymax))
}

// ReadSettings decodes the iteration limit and palette from kv. Fields
// not kept in kv (workers, distortion) are left zero.
func ReadSettings(kv KV) (rs mandel.RenderSettings, ok bool, err error) {
	s, present := kv.Get(KeyMaxIter)
	if !present {
		return mandel.RenderSettings{}, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return mandel.RenderSettings{}, false, fmt.Errorf("stored %s %q: %w", KeyMaxIter, s, mandel.ErrInvalidSettings)
	}
	colors := make([]string, 0, 3)
	for _, k := range []string{KeyInterior, KeyEscapeEven, KeyEscapeOdd} {
		if c, ok := kv.Get(k); ok {
			colors = append(colors, c)
		}
	}
	p, err := mandel.ParsePalette(colors)
	if err != nil {
		return mandel.RenderSettings{}, false, fmt.Errorf("stored palette: %w", err)
	}
	rs = mandel.RenderSettings{MaxIter: n, Palette: p}
	if err := rs.Validate(); err != nil {
		return mandel.RenderSettings{}, false, err
	}
	return rs, true, nil
}

// WriteSettings stores the iteration limit and palette of rs in kv.
func WriteSettings(kv KV, rs mandel.RenderSettings) {
	hex := rs.Palette.Hex()
	kv.Set(KeyMaxIter, strconv.Itoa(rs.MaxIter))
	kv.Set(KeyInterior, hex[0])
	kv.Set(KeyEscapeEven, hex[1])
	kv.Set(KeyEscapeOdd, hex[2])
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Store is a KV kept in memory and, when it has a path, mirrored to a JSON file.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	return &Store{values: make(map[string]string)}
}

// Open reads the store at path. A missing or unparsable file yields an
// empty store; the next save overwrites a broken file.
func Open(path string) (*Store, error) {
	s := &Store{
		values: make(map[string]string),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		log.Printf("viewstore: ignoring unreadable state %s: %v", path, err)
		s.values = make(map[string]string)
	}
	return s, nil
}

// DefaultPath returns ~/.config/mandelzoom/state.json.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "mandelzoom", stateFile)
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Flush writes the store to disk. It is a no-op for memory stores.
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) LoadViewport() (mandel.Viewport, bool, error) {
	return ReadViewport(s)
}

func (s *Store) SaveViewport(v mandel.Viewport) error {
	WriteViewport(s, v)
	return s.Flush()
}

func (s *Store) LoadSettings() (mandel.RenderSettings, bool, error) {
	return ReadSettings(s)
}

func (s *Store) SaveSettings(rs mandel.RenderSettings) error {
	WriteSettings(s, rs)
	return s.Flush()
}

var (
	_ mandel.ViewStateStore = (*Store)(nil)
	_ mandel.SettingsStore  = (*Store)(nil)
)

// Package prefstore keeps the viewport and render settings in the fyne
// application preferences.
package prefstore

import (
	"fyne.io/fyne/v2"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/viewstore"
)

// Store adapts fyne preferences to the state stores. Fyne reports a
// missing string preference as "", so empty values count as absent.
type Store struct {
	prefs fyne.Preferences
}

func New(prefs fyne.Preferences) *Store {
	return &Store{prefs: prefs}
}

func (s *Store) Get(key string) (string, bool) {
	v := s.prefs.String(key)
	return v, v != ""
}

func (s *Store) Set(key, value string) {
	s.prefs.SetString(key, value)
}

func (s *Store) LoadViewport() (mandel.Viewport, bool, error) {
	return viewstore.ReadViewport(s)
}

func (s *Store) SaveViewport(v mandel.Viewport) error {
	viewstore.WriteViewport(s, v)
	return nil
}

func (s *Store) LoadSettings() (mandel.RenderSettings, bool, error) {
	return viewstore.ReadSettings(s)
}

func (s *Store) SaveSettings(rs mandel.RenderSettings) error {
	viewstore.WriteSettings(s, rs)
	return nil
}

var (
	_ viewstore.KV          = (*Store)(nil)
	_ mandel.ViewStateStore = (*Store)(nil)
	_ mandel.SettingsStore  = (*Store)(nil)
)

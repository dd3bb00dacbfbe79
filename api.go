package mandel

import (
	"context"
	"image"
)

// ImgProvider hands out the current fully rendered frame.
type ImgProvider interface {
	GetImage(ctx context.Context) (*image.RGBA, error)
}

// ViewStateStore persists the viewport between sessions.
// Load reports ok == false when nothing has been stored yet.
type ViewStateStore interface {
	LoadViewport() (v Viewport, ok bool, err error)
	SaveViewport(v Viewport) error
}

// SettingsStore persists the iteration limit and palette.
type SettingsStore interface {
	LoadSettings() (rs RenderSettings, ok bool, err error)
	SaveSettings(rs RenderSettings) error
}

package mandel

import (
	"context"
	"image"
)

//go:generate irpc $GOFILE

// Renderer classifies the pixels of one tile of the canvas described by m.
// Remote workers serve it over irpc.
type Renderer interface {
	RenderTile(ctx context.Context, m Mapper, tile image.Rectangle, maxIter int) (*Raster, error)
}

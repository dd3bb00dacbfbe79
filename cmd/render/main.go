// render renders one view of the Mandelbrot set to an image file without a server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/export"
	"github.com/marben/mandelzoom/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "renderer configuration (defaults when empty)")
	w := flag.Int("w", 800, "image width")
	h := flag.Int("h", 600, "image height")
	view := flag.String("view", "", "viewport as xmin,ymin,xmax,ymax")
	landmark := flag.String("landmark", "", "named viewport ("+strings.Join(mandel.LandmarkNames(), ", ")+")")
	maxIter := flag.Int("iter", 0, "iteration limit (overrides config)")
	workers := flag.Int("workers", -1, "render workers, 0 for one per CPU (overrides config)")
	palette := flag.String("palette", "", "interior,escape-even,escape-odd colors as #rrggbb (overrides config)")
	distort := flag.Bool("distort", false, "scale the x axis by width instead of keeping square pixels")
	out := flag.String("o", "mandel.png", "output file (.png, .bmp, .tif)")
	thumb := flag.String("thumb", "", "also write a thumbnail to this file")
	thumbSize := flag.Int("thumb-size", 160, "bounding box of the thumbnail")
	verbose := flag.Bool("v", false, "log every tile")
	flag.Parse()

	rs, err := settings(*configPath, *maxIter, *workers, *palette, *distort)
	if err != nil {
		return err
	}

	v := mandel.DefaultViewport
	switch {
	case *view != "" && *landmark != "":
		return errors.New("-view and -landmark are exclusive")
	case *view != "":
		if v, err = parseViewport(*view); err != nil {
			return err
		}
	case *landmark != "":
		var ok bool
		if v, ok = mandel.Landmark(*landmark); !ok {
			return fmt.Errorf("unknown landmark %q", *landmark)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	size := mandel.CanvasSize{W: *w, H: *h}
	start := time.Now()
	raster, err := render(ctx, v, size, rs, *verbose)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := raster.Stats()
	log.Printf("rendered %s at %s in %s: interior %d, even %d, odd %d, mean escape %.2f",
		v, size, elapsed, st.Interior, st.EscapeEven, st.EscapeOdd, st.MeanEscape)

	img := raster.Image(rs.Palette, session.Background)
	if err := export.WriteFile(*out, img); err != nil {
		return err
	}
	log.Printf("saved %q", *out)

	if *thumb != "" {
		if err := export.WriteFile(*thumb, export.Thumbnail(img, *thumbSize, *thumbSize)); err != nil {
			return err
		}
		log.Printf("saved thumbnail %q", *thumb)
	}
	return nil
}

// settings layers the command line overrides over the config file.
func settings(path string, maxIter, workers int, palette string, distort bool) (mandel.RenderSettings, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return mandel.RenderSettings{}, err
		}
	}
	if maxIter != 0 {
		cfg.MaxIter = maxIter
	}
	if workers >= 0 {
		cfg.Workers = workers
	}
	if palette != "" {
		cfg.Palette = strings.Split(palette, ",")
	}
	if distort {
		cfg.AllowDistortion = true
	}
	return cfg.RenderSettings()
}

// render runs the tile scheduler with local workers, logging progress.
func render(ctx context.Context, v mandel.Viewport, size mandel.CanvasSize, rs mandel.RenderSettings, verbose bool) (*mandel.Raster, error) {
	if !verbose {
		return mandel.RenderParallel(ctx, v, size, rs)
	}

	ts, err := mandel.NewTileScheduler(v, size, rs)
	if err != nil {
		return nil, err
	}
	log.Printf("rendering %d tiles", ts.TotalTiles())
	ts.OnProgress(func(done float32) { log.Printf("%.0f%% done", 100*done) })

	renderer := mandel.LocalRenderer{OnTileRender: func(tile image.Rectangle) { log.Printf("rendering tile: %s", tile) }}
	return ts.Run(ctx, rs.Workers, renderer)
}

func parseViewport(s string) (mandel.Viewport, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return mandel.Viewport{}, fmt.Errorf("viewport %q: expected xmin,ymin,xmax,ymax", s)
	}
	var f [4]float64
	for i, p := range parts {
		var err error
		if f[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return mandel.Viewport{}, fmt.Errorf("viewport %q: %w", s, err)
		}
	}
	return mandel.Viewport{Xmin: f[0], Ymin: f[1], Xmax: f[2], Ymax: f[3]}, nil
}

// Package main provides the entry point for the desktop zoom viewer.
package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2/app"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/session"
	"github.com/marben/mandelzoom/ui/prefstore"
)

const (
	appID    = "io.github.marben.mandelzoom"
	appTitle = "Mandelzoom"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "renderer configuration (defaults when empty)")
	w := flag.Int("w", 800, "canvas width")
	h := flag.Int("h", 600, "canvas height")
	flag.Parse()
	log.Printf("Starting %s", appTitle)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	defaults, err := cfg.RenderSettings()
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID(appID)
	store := prefstore.New(fyneApp.Preferences())
	sess, err := session.New(mandel.CanvasSize{W: *w, H: *h}, store, store, defaults)
	if err != nil {
		return err
	}

	win := newMainWindow(fyneApp, sess)
	win.SetTitle(appTitle)
	win.render()
	win.ShowAndRun()
	return nil
}

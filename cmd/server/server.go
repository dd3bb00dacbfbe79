package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/viewstore"
	"github.com/marben/mandelzoom/internal/workers"
	"github.com/marben/mandelzoom/internal/zoomserver"
)

// main is the entry point for the zoom server.
// Rendering happens here; web and CLI clients only send clicks and display frames.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	port := flag.Int("port", 8080, "http port")
	staticDir := flag.String("static", "./static", "directory with index.html and main.wasm")
	configPath := flag.String("config", "config.json", "renderer configuration")
	statePath := flag.String("state", viewstore.DefaultPath(), "file keeping the last viewport and settings")
	workerPort := flag.Int("worker-port", 8081, "tcp port remote tile workers connect to, 0 disables them")
	renderDelay := flag.Duration("render-delay", 100*time.Millisecond, "pause between the rendering status and the render")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	defaults, err := cfg.RenderSettings()
	if err != nil {
		return fmt.Errorf("config %s: %w", *configPath, err)
	}

	// The state store backs both the viewport and the settings of every session
	store, err := viewstore.Open(*statePath)
	if err != nil {
		return err
	}
	log.Printf("state kept in %s", *statePath)

	zs := zoomserver.New(store, store, defaults)
	zs.RenderDelay = *renderDelay

	httpServer := webServer(*port, *staticDir, zs)

	errCh := make(chan error, 2)
	if *workerPort != 0 {
		// Each connected worker renders tiles for every session
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *workerPort))
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		zs.Workers = workers.NewPool()
		defer zs.Workers.Close()
		go func() {
			if err := zs.Workers.Serve(lis); err != nil {
				errCh <- fmt.Errorf("workers: %w", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		errCh <- fmt.Errorf("httpServer: %w", httpServer.ListenAndServe())
	}()

	log.Printf("mb server waiting for websocket connections")
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/workers"
)

// work lends our CPU to the server at addr until ctx ends or the server
// goes away.
func work(ctx context.Context, addr string) error {
	// Step 1: Connect to the worker port of the zoom server
	log.Printf("Connecting to zoom server workers at %s...", addr)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	// Step 2: Serve the renderer, which the server calls to render tiles using our CPU
	renderer := mandel.LocalRenderer{OnTileRender: func(tile image.Rectangle) { log.Printf("Rendering tile: %s", tile) }}
	ep := workers.ServeRenderer(conn, renderer)
	defer ep.Close()

	// Step 3: Wait for the server to drop us or for the user to quit
	log.Printf("Serving tiles, press ctrl+c to stop")
	select {
	case <-ep.Context().Done():
		if cause := context.Cause(ep.Context()); !errors.Is(cause, irpc.ErrEndpointClosedByCounterpart) {
			return cause
		}
		log.Printf("server closed the connection")
	case <-ctx.Done():
	}
	return nil
}

// cliclient is a CLI client for the zoom server.
// It connects over websocket, replays the requested clicks and saves the final frame.
// With -worker it instead renders tiles for the server until interrupted.

package main

import (
	"context"
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
	"github.com/marben/mandelzoom/internal/export"
	"github.com/marben/mandelzoom/internal/wsproto"
)

// clickList collects repeated -click flags.
type clickList []image.Point

func (l *clickList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (l *clickList) Set(s string) error {
	p, err := parsePoint(s)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("y: %w", err)
	}
	return image.Pt(x, y), nil
}

// main is the entry point for the CLI client.
// Note: without -worker all rendering is performed by the server; the client only sends requests.
func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	var clicks clickList
	url := flag.String("url", "ws://localhost:8080/ws", "zoom server websocket endpoint")
	w := flag.Int("w", 800, "canvas width")
	h := flag.Int("h", 600, "canvas height")
	landmark := flag.String("landmark", "", "jump to a named landmark first ("+strings.Join(mandel.LandmarkNames(), ", ")+")")
	reset := flag.Bool("reset", false, "reset the viewport before anything else")
	out := flag.String("o", "mandel.png", "output file (.png, .bmp, .tif)")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	worker := flag.String("worker", "", "serve tiles to the server's worker port at host:port instead of zooming")
	flag.Var(&clicks, "click", "canvas click as x,y (repeatable, two clicks zoom)")
	flag.Parse()

	if *worker != "" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return work(ctx, *worker)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Step 1: Connect to the zoom server
	log.Printf("Connecting to zoom server at %s...", *url)
	client, err := wsproto.Dial(ctx, *url, mandel.CanvasSize{W: *w, H: *h})
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer client.Close()
	client.OnStatus = func(s string) { log.Printf("server: %s", s) }

	// Step 2: Wait for the initial frame
	state, frame, err := client.Frame(ctx)
	if err != nil {
		return fmt.Errorf("initial frame: %w", err)
	}
	log.Printf("initial viewport %s", state.Viewport.Mandel())

	// Step 3: Send the requests
	var msgs []wsproto.ClientMsg
	if *reset {
		msgs = append(msgs, wsproto.ClientMsg{Type: wsproto.TypeReset})
	}
	if *landmark != "" {
		msgs = append(msgs, wsproto.ClientMsg{Type: wsproto.TypeGoto, Landmark: *landmark})
	}
	for _, p := range clicks {
		msgs = append(msgs, wsproto.ClientMsg{Type: wsproto.TypeClick, X: p.X, Y: p.Y})
	}
	for _, msg := range msgs {
		state, frame, err = client.Do(ctx, msg)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		log.Printf("%s: viewport %s, selection %s (render took %.1fms)", msg.Type, state.Viewport.Mandel(), state.Selection, state.ElapsedMs)
	}

	// Step 4: Save the last frame
	img, err := export.DecodePNG(frame)
	if err != nil {
		return err
	}
	log.Printf("Saving rendered image to %q...", *out)
	if err := export.WriteFile(*out, img); err != nil {
		return err
	}
	log.Printf("interior %d, escaped %d/%d (mean %.2f iterations)",
		state.Stats.Interior, state.Stats.EscapeEven, state.Stats.EscapeOdd, state.Stats.MeanEscape)
	return nil
}

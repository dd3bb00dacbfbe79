package workers

import (
	"context"
	"errors"
	"image"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
)

func waitLen(t *testing.T, p *Pool, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d workers, got %d", n, p.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPool(t *testing.T) {
	pool := NewPool()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	serveErrC := make(chan error, 1)
	go func() { serveErrC <- pool.Serve(l) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("net.Dial(%s): %v", l.Addr(), err)
	}
	var tiles atomic.Int32
	workerEp := ServeRenderer(conn, mandel.LocalRenderer{OnTileRender: func(image.Rectangle) { tiles.Add(1) }})
	waitLen(t, pool, 1)

	// remote worker only, no local goroutines get a chance at the tiles
	size := mandel.CanvasSize{W: 150, H: 100}
	ts, err := mandel.NewTileScheduler(mandel.DefaultViewport, size, mandel.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range pool.Renderers() {
		if err := ts.Work(context.Background(), r); err != nil {
			t.Fatalf("remote Work(): %+v", err)
		}
	}
	got, err := ts.Raster(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want, _ := mandel.Render(mandel.DefaultViewport, size, mandel.DefaultSettings())
	if !got.Equal(want) {
		t.Fatal("expected raster of remote worker to equal sequential raster")
	}
	if int(tiles.Load()) != ts.TotalTiles() {
		t.Fatalf("expected worker to render %d tiles, got %d", ts.TotalTiles(), tiles.Load())
	}

	if err := workerEp.Close(); err != nil {
		t.Fatalf("workerEp.Close(): %v", err)
	}
	waitLen(t, pool, 0)

	if err := pool.Close(); err != nil {
		t.Fatalf("pool.Close(): %v", err)
	}
	if err := <-serveErrC; !errors.Is(err, irpc.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
}

func TestPoolRenderParallel(t *testing.T) {
	pool := NewPool()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go pool.Serve(l)
	defer pool.Close()

	for range 2 {
		conn, err := net.Dial("tcp", l.Addr().String())
		if err != nil {
			t.Fatal(err)
		}
		ep := ServeRenderer(conn, mandel.LocalRenderer{})
		defer ep.Close()
	}
	waitLen(t, pool, 2)

	size := mandel.CanvasSize{W: 300, H: 200}
	rs := mandel.DefaultSettings()
	rs.Workers = 1
	got, err := mandel.RenderParallel(context.Background(), mandel.SeahorseValley, size, rs, pool.Renderers()...)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := mandel.Render(mandel.SeahorseValley, size, rs)
	if !got.Equal(want) {
		t.Fatal("expected raster to equal sequential raster")
	}
}

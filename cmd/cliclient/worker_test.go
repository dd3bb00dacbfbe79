package main

import (
	"context"
	"image"
	"net"
	"testing"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/workers"
)

func startPool(t *testing.T) (*workers.Pool, string) {
	t.Helper()
	pool := workers.NewPool()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go pool.Serve(l)
	t.Cleanup(func() { pool.Close() })
	return pool, l.Addr().String()
}

func waitWorkers(t *testing.T, pool *workers.Pool, n int) {
	t.Helper()
	for deadline := time.Now().Add(5 * time.Second); pool.Len() != n; time.Sleep(5 * time.Millisecond) {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d workers, got %d", n, pool.Len())
		}
	}
}

func TestWork(t *testing.T) {
	pool, addr := startPool(t)

	ctx, cancel := context.WithCancel(context.Background())
	workErrC := make(chan error, 1)
	go func() { workErrC <- work(ctx, addr) }()
	waitWorkers(t, pool, 1)

	m, err := mandel.NewMapper(mandel.DefaultViewport, mandel.CanvasSize{W: 64, H: 64}, false)
	if err != nil {
		t.Fatal(err)
	}
	tile := image.Rect(0, 0, 64, 64)
	got, err := pool.Renderers()[0].RenderTile(context.Background(), m, tile, 100)
	if err != nil {
		t.Fatalf("RenderTile(): %+v", err)
	}
	want, _ := mandel.LocalRenderer{}.RenderTile(context.Background(), m, tile, 100)
	if !got.Equal(want) {
		t.Fatal("expected worker tile to equal local tile")
	}

	cancel()
	if err := <-workErrC; err != nil {
		t.Fatalf("expected clean exit on interrupt, got %v", err)
	}
	waitWorkers(t, pool, 0)
}

func TestWorkServerGone(t *testing.T) {
	pool, addr := startPool(t)

	workErrC := make(chan error, 1)
	go func() { workErrC <- work(context.Background(), addr) }()
	waitWorkers(t, pool, 1)

	pool.Close()
	select {
	case <-workErrC:
	case <-time.After(5 * time.Second):
		t.Fatal("expected worker to stop once the server closed")
	}
}

func TestWorkNoServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	if err := work(context.Background(), addr); err == nil {
		t.Fatal("expected dial error")
	}
}

// Package zoomserver serves interactive zoom sessions over websockets.
package zoomserver

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/export"
	"github.com/marben/mandelzoom/internal/session"
	"github.com/marben/mandelzoom/internal/workers"
	"github.com/marben/mandelzoom/internal/wsproto"
)

// MaxCanvas bounds the canvas size a client may request.
var MaxCanvas = mandel.CanvasSize{W: 4096, H: 4096}

// MaxRenders bounds the number of frames rendered at the same time over
// all clients. It is read by New.
var MaxRenders = 2

// Server hands every websocket connection its own session. All sessions
// share the same stores, so the last zoom of any client is what the next
// one starts from.
type Server struct {
	views    mandel.ViewStateStore
	prefs    mandel.SettingsStore
	defaults mandel.RenderSettings

	// RenderDelay separates the "rendering" status from the render itself
	// so clients get to show it.
	RenderDelay time.Duration

	// Workers, if set, lends its remote renderers to every session.
	Workers *workers.Pool

	renders chan struct{}

	m       sync.Mutex
	clients int
}

func New(views mandel.ViewStateStore, prefs mandel.SettingsStore, defaults mandel.RenderSettings) *Server {
	return &Server{
		views:       views,
		prefs:       prefs,
		defaults:    defaults,
		RenderDelay: 100 * time.Millisecond,
		renders:     make(chan struct{}, max(MaxRenders, 1)),
	}
}

func (srv *Server) addClient(d int) int {
	srv.m.Lock()
	defer srv.m.Unlock()
	srv.clients += d
	return srv.clients
}

// ServeHTTP upgrades the request and serves the session until the client leaves.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: restrict to the configured host once the server runs behind a proxy
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	log.Printf("got connection from: %s (clients: %d)", r.RemoteAddr, srv.addClient(1))
	defer func() {
		log.Printf("%s left (clients: %d)", r.RemoteAddr, srv.addClient(-1))
	}()

	err = srv.serve(r.Context(), c)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("session %s: %v", r.RemoteAddr, err)
	}
}

func (srv *Server) serve(ctx context.Context, c *websocket.Conn) error {
	var hello wsproto.ClientMsg
	if err := wsjson.Read(ctx, c, &hello); err != nil {
		return err
	}
	if hello.Type != wsproto.TypeHello {
		return c.Close(websocket.StatusPolicyViolation, "expected hello")
	}
	size := mandel.CanvasSize{W: hello.Width, H: hello.Height}
	if size.W > MaxCanvas.W || size.H > MaxCanvas.H {
		return srv.reject(ctx, c, fmt.Errorf("canvas %s larger than %s: %w", size, MaxCanvas, mandel.ErrInvalidGeometry))
	}
	sess, err := session.New(size, srv.views, srv.prefs, srv.defaults)
	if err != nil {
		return srv.reject(ctx, c, err)
	}
	if srv.Workers != nil {
		sess.UseRemote(srv.Workers.Renderers)
	}

	if err := srv.sendFrame(ctx, c, sess); err != nil {
		return err
	}
	for {
		var msg wsproto.ClientMsg
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			return err
		}
		if err := srv.handle(sess, msg); err != nil {
			if err := sendError(ctx, c, err); err != nil {
				return err
			}
			continue
		}
		if err := srv.sendFrame(ctx, c, sess); err != nil {
			return err
		}
	}
}

// handle applies one request to the session.
func (srv *Server) handle(sess *session.Session, msg wsproto.ClientMsg) error {
	switch msg.Type {
	case wsproto.TypeClick:
		_, _, err := sess.Click(image.Pt(msg.X, msg.Y))
		return err
	case wsproto.TypeReset:
		return sess.Reset()
	case wsproto.TypeSettings:
		p, err := mandel.ParsePalette(msg.Palette)
		if err != nil {
			return err
		}
		return sess.UpdateSettings(msg.MaxIter, p)
	case wsproto.TypeResetSettings:
		return sess.ResetSettings()
	case wsproto.TypeGoto:
		v, ok := mandel.Landmark(msg.Landmark)
		if !ok {
			return fmt.Errorf("unknown landmark %q", msg.Landmark)
		}
		return sess.SetViewport(v)
	case wsproto.TypeRender:
		return nil
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}

func (srv *Server) sendFrame(ctx context.Context, c *websocket.Conn, sess *session.Session) error {
	if err := wsjson.Write(ctx, c, wsproto.ServerMsg{Type: wsproto.TypeStatus, Status: "rendering"}); err != nil {
		return err
	}
	if srv.RenderDelay > 0 {
		select {
		case <-time.After(srv.RenderDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f, err := srv.render(ctx, sess)
	if err != nil {
		return err
	}
	frame, err := export.EncodePNG(f.Image)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	state := &wsproto.State{
		Viewport:  wsproto.FromViewport(f.Viewport),
		Width:     sess.Size().W,
		Height:    sess.Size().H,
		Selection: "idle",
		MaxIter:   f.Settings.MaxIter,
		Palette:   f.Settings.Palette.Hex(),
		Stats:     f.Stats,
		ElapsedMs: float64(f.Elapsed) / float64(time.Millisecond),
	}
	if f.Selection.Phase == mandel.CornerPicked {
		state.Selection = "corner"
		state.Corner = &wsproto.Point{X: f.Selection.Corner.X, Y: f.Selection.Corner.Y}
	}
	if err := wsjson.Write(ctx, c, wsproto.ServerMsg{Type: wsproto.TypeState, State: state}); err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageBinary, frame)
}

// render waits for a free render slot before rendering.
func (srv *Server) render(ctx context.Context, sess *session.Session) (*session.Frame, error) {
	select {
	case srv.renders <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-srv.renders }()
	return sess.Render(ctx)
}

func sendError(ctx context.Context, c *websocket.Conn, err error) error {
	return wsjson.Write(ctx, c, wsproto.ServerMsg{Type: wsproto.TypeError, Error: err.Error()})
}

func (srv *Server) reject(ctx context.Context, c *websocket.Conn, err error) error {
	if werr := sendError(ctx, c, err); werr != nil {
		return werr
	}
	return c.Close(websocket.StatusPolicyViolation, "invalid canvas")
}

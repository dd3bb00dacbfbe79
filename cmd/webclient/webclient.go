//go:build js && wasm

// webclient.go is a WASM web client for the zoom server.
// It shows the frames rendered by the server and forwards canvas clicks and settings changes.

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strconv"
	"sync"
	"syscall/js"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/export"
	"github.com/marben/mandelzoom/internal/overlay"
	"github.com/marben/mandelzoom/internal/wsproto"
)

// view is what the page currently shows.
type view struct {
	m     sync.Mutex
	frame *image.RGBA
	state *wsproto.State
}

func (v *view) set(frame *image.RGBA, state *wsproto.State) {
	v.m.Lock()
	defer v.m.Unlock()
	v.frame, v.state = frame, state
}

// echo redraws the last frame with the selection outline running to cursor.
func (v *view) echo(cursor image.Point) {
	v.m.Lock()
	defer v.m.Unlock()
	if v.frame == nil || v.state == nil || v.state.Corner == nil {
		return
	}
	img := image.NewRGBA(v.frame.Rect)
	copy(img.Pix, v.frame.Pix)
	sel := mandel.Selection{Phase: mandel.CornerPicked, Corner: image.Pt(v.state.Corner.X, v.state.Corner.Y)}
	overlay.Selection(img, sel, cursor, overlay.SelectionColor)
	displayImage(img)
}

// main is the entry point for the WASM web client.
// Note: all rendering is performed by the server; the client only displays frames.
func main() {
	logScreenf("Starting WASM web client...")
	ctx := context.Background()

	// Step 1: Determine server address for WebSocket connection
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"

	// Step 2: Size the canvas
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	size := mandel.CanvasSize{W: canvas.Get("width").Int(), H: canvas.Get("height").Int()}
	initCanvas(size.W, size.H, "#3a3a6e")
	logScreenf("Canvas initialized to dimensions %s", size)

	// Step 3: Connect to server via WebSocket
	logScreenf("Connecting to zoom server at %s...", websocketUrl)
	client, err := wsproto.Dial(ctx, websocketUrl, size)
	if err != nil {
		logFatalf("Failed to connect: %v", err)
	}
	client.OnStatus = func(status string) { hudSet("status", status) }
	logScreenf("WebSocket connected.")

	// Step 4: Hook up the page controls
	v := &view{}
	bindControls(ctx, client, canvas, v)

	// Step 5: Show frames as they arrive. Never returns while the connection lives.
	if err := framesLoop(ctx, client, v); err != nil {
		logFatalf("framesLoop: %v", err)
	}
}

// framesLoop displays every frame the server sends. Errors reported by the
// server are shown in the log and do not end the loop.
func framesLoop(ctx context.Context, client *wsproto.Client, v *view) error {
	for {
		state, data, err := client.Frame(ctx)
		var serr *wsproto.ServerError
		if errors.As(err, &serr) {
			logScreenf("%v", serr)
			hudSet("status", "error")
			continue
		}
		if err != nil {
			return err
		}

		frame, err := export.DecodePNG(data)
		if err != nil {
			return err
		}
		v.set(frame, state)
		displayImage(frame)
		showState(state)
	}
}

// bindControls wires canvas and form events to server requests.
func bindControls(ctx context.Context, client *wsproto.Client, canvas js.Value, v *view) {
	doc := js.Global().Get("document")
	send := func(msg wsproto.ClientMsg) {
		go func() {
			if err := client.Send(ctx, msg); err != nil {
				logScreenf("%v", err)
			}
		}()
	}
	on := func(elem js.Value, event string, fn func(e js.Value)) {
		elem.Call("addEventListener", event, js.FuncOf(func(this js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		}))
	}
	byId := func(id string) js.Value { return doc.Call("getElementById", id) }

	on(canvas, "click", func(e js.Value) {
		p := canvasPoint(canvas, e)
		send(wsproto.ClientMsg{Type: wsproto.TypeClick, X: p.X, Y: p.Y})
	})
	on(canvas, "mousemove", func(e js.Value) {
		v.echo(canvasPoint(canvas, e))
	})
	on(byId("reset"), "click", func(js.Value) {
		send(wsproto.ClientMsg{Type: wsproto.TypeReset})
	})
	on(byId("render"), "click", func(js.Value) {
		send(wsproto.ClientMsg{Type: wsproto.TypeRender})
	})
	on(byId("applySettings"), "click", func(js.Value) {
		maxIter, err := strconv.Atoi(byId("maxIter").Get("value").String())
		if err != nil {
			logScreenf("iterations: %v", err)
			return
		}
		send(wsproto.ClientMsg{
			Type:    wsproto.TypeSettings,
			MaxIter: maxIter,
			Palette: []string{
				byId("colorInterior").Get("value").String(),
				byId("colorEscapeEven").Get("value").String(),
				byId("colorEscapeOdd").Get("value").String(),
			},
		})
	})
	on(byId("resetSettings"), "click", func(js.Value) {
		send(wsproto.ClientMsg{Type: wsproto.TypeResetSettings})
	})

	landmarks := byId("landmark")
	for _, name := range mandel.LandmarkNames() {
		opt := doc.Call("createElement", "option")
		opt.Set("value", name)
		opt.Set("textContent", name)
		landmarks.Call("appendChild", opt)
	}
	on(landmarks, "change", func(js.Value) {
		send(wsproto.ClientMsg{Type: wsproto.TypeGoto, Landmark: landmarks.Get("value").String()})
	})
}

// showState updates the HUD and the settings form from the server state.
func showState(s *wsproto.State) {
	hudSet("status", fmt.Sprintf("render took %.1fms", s.ElapsedMs))
	hudSet("viewport", s.Viewport.Mandel().String())
	hudSet("selection", s.Selection)
	hudSet("interior", s.Stats.Interior)
	hudSet("escaped", s.Stats.EscapeEven+s.Stats.EscapeOdd)

	doc := js.Global().Get("document")
	doc.Call("getElementById", "maxIter").Set("value", s.MaxIter)
	doc.Call("getElementById", "colorInterior").Set("value", s.Palette[0])
	doc.Call("getElementById", "colorEscapeEven").Set("value", s.Palette[1])
	doc.Call("getElementById", "colorEscapeOdd").Set("value", s.Palette[2])
}

// hudSet sets the text of the HUD element id.
func hudSet(id string, value any) {
	js.Global().Get("document").Call("getElementById", id).Set("textContent", value)
}

// logScreenf appends a formatted message to the log element in the DOM,
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

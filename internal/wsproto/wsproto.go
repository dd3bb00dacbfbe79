// Package wsproto defines the websocket messages exchanged between the
// zoom server and its clients, plus a small client.
//
// Clients send JSON text messages. The server answers every request with
// a "status" message, then a "state" message immediately followed by one
// binary message holding the PNG frame. Rejected requests get an "error"
// message instead.
package wsproto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
)

// Client message types.
const (
	TypeHello         = "hello"
	TypeClick         = "click"
	TypeReset         = "reset"
	TypeSettings      = "settings"
	TypeResetSettings = "resetSettings"
	TypeGoto          = "goto"
	TypeRender        = "render"
)

// Server message types.
const (
	TypeStatus = "status"
	TypeState  = "state"
	TypeError  = "error"
)

// MaxFrameBytes bounds the size of a frame a client accepts.
const MaxFrameBytes = 64 << 20

// ClientMsg is a request from a client.
type ClientMsg struct {
	Type string `json:"type"`

	// hello
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// click
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// settings
	MaxIter int      `json:"maxIter,omitempty"`
	Palette []string `json:"palette,omitempty"`

	// goto
	Landmark string `json:"landmark,omitempty"`
}

// ServerMsg is a text message from the server.
type ServerMsg struct {
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	State  *State `json:"state,omitempty"`
}

// State describes the frame that follows it.
type State struct {
	Viewport  Viewport     `json:"viewport"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Selection string       `json:"selection"`
	Corner    *Point       `json:"corner,omitempty"`
	MaxIter   int          `json:"maxIter"`
	Palette   [3]string    `json:"palette"`
	Stats     mandel.Stats `json:"stats"`
	ElapsedMs float64      `json:"elapsedMs"`
}

// Viewport is the wire form of mandel.Viewport.
type Viewport struct {
	Xmin float64 `json:"xmin"`
	Ymin float64 `json:"ymin"`
	Xmax float64 `json:"xmax"`
	Ymax float64 `json:"ymax"`
}

func FromViewport(v mandel.Viewport) Viewport {
	return Viewport{Xmin: v.Xmin, Ymin: v.Ymin, Xmax: v.Xmax, Ymax: v.Ymax}
}

func (v Viewport) Mandel() mandel.Viewport {
	return mandel.Viewport{Xmin: v.Xmin, Ymin: v.Ymin, Xmax: v.Xmax, Ymax: v.Ymax}
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ServerError is an error message received from the server.
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return "server: " + e.Msg
}

// Client is a connection to the zoom server.
type Client struct {
	conn *websocket.Conn

	// OnStatus, if set, receives status messages while waiting for a frame.
	OnStatus func(status string)
}

// Dial connects to the websocket endpoint at url and announces the canvas size.
func Dial(ctx context.Context, url string, size mandel.CanvasSize) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial: %w", err)
	}
	conn.SetReadLimit(MaxFrameBytes)

	c := &Client{conn: conn}
	if err := c.Send(ctx, ClientMsg{Type: TypeHello, Width: size.W, Height: size.H}); err != nil {
		conn.CloseNow()
		return nil, err
	}
	return c, nil
}

// Send writes one request.
func (c *Client) Send(ctx context.Context, msg ClientMsg) error {
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// Frame waits for the next state message and the PNG frame following it.
func (c *Client) Frame(ctx context.Context) (*State, []byte, error) {
	var state *State
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("read: %w", err)
		}

		if typ == websocket.MessageBinary {
			if state == nil {
				return nil, nil, errors.New("frame without state")
			}
			return state, data, nil
		}

		var msg ServerMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, nil, fmt.Errorf("decode server message: %w", err)
		}
		switch msg.Type {
		case TypeStatus:
			if c.OnStatus != nil {
				c.OnStatus(msg.Status)
			}
		case TypeError:
			return nil, nil, &ServerError{Msg: msg.Error}
		case TypeState:
			state = msg.State
		}
	}
}

// Do sends msg and waits for the resulting frame.
func (c *Client) Do(ctx context.Context, msg ClientMsg) (*State, []byte, error) {
	if err := c.Send(ctx, msg); err != nil {
		return nil, nil, err
	}
	return c.Frame(ctx)
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// Package workers keeps track of remote tile renderers. Workers dial the
// server over tcp and serve mandel.Renderer on the irpc endpoint; every
// connected worker takes part in the renders of all sessions.
package workers

import (
	"log"
	"net"
	"sync"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
)

type Pool struct {
	m         sync.Mutex
	renderers map[*irpc.Endpoint]mandel.Renderer

	server *irpc.Server
}

func NewPool() *Pool {
	p := &Pool{
		renderers: make(map[*irpc.Endpoint]mandel.Renderer),
	}
	// irpc server with onConnect hook to plug workers into rendering
	p.server = irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		if err := p.Attach(ep); err != nil {
			log.Printf("err: attach worker %s: %v", ep.RemoteAddr(), err)
			ep.Close()
		}
	}))
	return p
}

// Serve accepts worker connections on lis until Close.
func (p *Pool) Serve(lis net.Listener) error {
	log.Printf("waiting for workers on %s", lis.Addr())
	return p.server.Serve(lis)
}

// Close disconnects all workers and stops Serve.
func (p *Pool) Close() error {
	return p.server.Close()
}

// Attach adds the renderer served on ep. It is dropped again once the
// endpoint closes.
func (p *Pool) Attach(ep *irpc.Endpoint) error {
	client, err := mandel.NewRendererIrpcClient(ep)
	if err != nil {
		return err
	}

	p.m.Lock()
	p.renderers[ep] = client
	n := len(p.renderers)
	p.m.Unlock()
	log.Printf("worker %s connected (workers: %d)", ep.RemoteAddr(), n)

	go func() {
		<-ep.Context().Done()
		p.m.Lock()
		delete(p.renderers, ep)
		n := len(p.renderers)
		p.m.Unlock()
		log.Printf("worker %s left (workers: %d)", ep.RemoteAddr(), n)
	}()
	return nil
}

// Renderers returns the currently connected workers.
func (p *Pool) Renderers() []mandel.Renderer {
	p.m.Lock()
	defer p.m.Unlock()
	rs := make([]mandel.Renderer, 0, len(p.renderers))
	for _, r := range p.renderers {
		rs = append(rs, r)
	}
	return rs
}

func (p *Pool) Len() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.renderers)
}

// ServeRenderer serves r on conn until the connection ends. This is the
// worker side of the pool.
func ServeRenderer(conn net.Conn, r mandel.Renderer) *irpc.Endpoint {
	return irpc.NewEndpoint(conn,
		irpc.WithEndpointServices(mandel.NewRendererIrpcService(r)),
		irpc.WithLocalAddress(conn.LocalAddr()),
		irpc.WithRemoteAddress(conn.RemoteAddr()),
	)
}

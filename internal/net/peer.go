package net

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

// Peer is the joining side of a shared board.
type Peer struct {
	c *conn
}

// Dial connects to the hub of the host at addr (host:port).
func Dial(ctx context.Context, addr string) (*Peer, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	log.Printf("[PEER] connected to %s as %s", addr, ws.LocalAddr())
	return &Peer{c: newConn(ws)}, nil
}

// LocalAddr is the peer's side of the connection.
func (p *Peer) LocalAddr() string {
	return p.c.ws.LocalAddr().String()
}

// Send queues a local op for the host. It fails when the connection is
// closed or the host has stopped reading.
func (p *Peer) Send(op state.Op) error {
	if err := p.c.send(op); err != nil {
		return fmt.Errorf("send %s op: %w", op.Type, err)
	}
	return nil
}

// Run delivers ops from the host to handle until the connection ends.
// A normal close returns nil.
func (p *Peer) Run(handle func(state.Op)) error {
	for {
		var op state.Op
		if err := p.c.ws.ReadJSON(&op); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read from host: %w", err)
		}
		if err := op.Validate(); err != nil {
			log.Printf("[PEER] dropping op from host: %v", err)
			continue
		}
		handle(op)
	}
}

func (p *Peer) Close() error {
	return p.c.close()
}

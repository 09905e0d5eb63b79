package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

const (
	writeWait = 5 * time.Second
	// sendQueue is how many batches may wait for a slow connection before
	// it is dropped.
	sendQueue = 256
)

var (
	errQueueFull = errors.New("send queue full")
	errClosed    = errors.New("connection closed")
)

// conn is one websocket connection. Writes are queued and done by a single
// writer goroutine, so senders never block on the network.
type conn struct {
	ws   *websocket.Conn
	out  chan []state.Op
	done chan struct{}
	once sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	c := &conn{
		ws:   ws,
		out:  make(chan []state.Op, sendQueue),
		done: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *conn) writeLoop() {
	for {
		select {
		case batch := <-c.out:
			for _, op := range batch {
				c.ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.ws.WriteJSON(op); err != nil {
					log.Printf("[NET] write to %s failed: %v", c.ws.RemoteAddr(), err)
					c.close()
					return
				}
			}
		case <-c.done:
			return
		}
	}
}

// send queues ops to be written in order. It never blocks.
func (c *conn) send(ops ...state.Op) error {
	select {
	case <-c.done:
		return errClosed
	default:
	}
	select {
	case c.out <- ops:
		return nil
	case <-c.done:
		return errClosed
	default:
		return errQueueFull
	}
}

// close stops the writer and closes the socket. Queued ops are dropped.
func (c *conn) close() error {
	err := errClosed
	c.once.Do(func() {
		close(c.done)
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		err = c.ws.Close()
	})
	return err
}

// Hub is run by the host. Every op a peer sends is applied to the host's
// canvas through OnOp and then relayed to all other peers, both inside one
// Sync call, so peers see ops in the order the host applied them.
type Hub struct {
	upgrader websocket.Upgrader
	peers    map[*conn]bool
	mu       sync.RWMutex
	order    sync.Mutex

	// Sync runs fn on the goroutine that owns the host canvas and waits for
	// it to finish. Broadcast must be called from that goroutine too. When
	// nil, fn runs under a hub lock.
	Sync func(fn func())
	// OnOp receives ops sent by peers. It runs inside Sync.
	OnOp func(state.Op)
	// Snapshot returns the ops a newly joined peer needs to catch up. It
	// runs inside Sync.
	Snapshot func() []state.Op
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Peers are desktop apps on the LAN, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[*conn]bool),
	}
}

// Count is the number of connected peers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[c] = true
	log.Printf("[HOST] peer connected: %s", c.ws.RemoteAddr())
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[c] {
		delete(h.peers, c)
		log.Printf("[HOST] peer removed: %s", c.ws.RemoteAddr())
	}
}

func (h *Hub) sync(fn func()) {
	if h.Sync != nil {
		h.Sync(fn)
		return
	}
	h.order.Lock()
	defer h.order.Unlock()
	fn()
}

// Broadcast queues a host op for every peer. It does not wait for the
// network; a peer whose queue is full is disconnected.
func (h *Hub) Broadcast(op state.Op) {
	h.broadcast(op, nil)
}

func (h *Hub) broadcast(op state.Op, exclude *conn) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.peers))
	for c := range h.peers {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(op); err != nil {
			log.Printf("[HOST] error sending to %s: %v", c.ws.RemoteAddr(), err)
			h.remove(c)
			go c.close()
		}
	}
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	c := newConn(ws)
	defer c.close()

	// The snapshot is queued and the peer registered in one step on the
	// canvas goroutine: every later host op lands behind the snapshot.
	h.sync(func() {
		if h.Snapshot != nil {
			if ops := h.Snapshot(); len(ops) > 0 {
				err = c.send(ops...)
			}
		}
		if err == nil {
			h.add(c)
		}
	})
	if err != nil {
		log.Printf("[HOST] snapshot to %s failed: %v", ws.RemoteAddr(), err)
		return
	}
	defer h.remove(c)

	for {
		var op state.Op
		if err := ws.ReadJSON(&op); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HOST] peer %s disconnected: %v", ws.RemoteAddr(), err)
			}
			return
		}
		if err := op.Validate(); err != nil {
			log.Printf("[HOST] dropping op from %s: %v", ws.RemoteAddr(), err)
			continue
		}

		h.sync(func() {
			if h.OnOp != nil {
				h.OnOp(op)
			}
			h.broadcast(op, c)
		})
	}
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[*conn]bool)
	h.mu.Unlock()

	for c := range peers {
		c.close()
	}
}

// ListenAndServe serves the hub at /ws on port until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[HOST] board server listening on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on port %d: %w", port, err)
	}
	return nil
}

package net

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/state"
)

// opLog collects ops delivered on other goroutines.
type opLog struct {
	mu  sync.Mutex
	ops []state.Op
}

func (l *opLog) add(op state.Op) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) snapshot() []state.Op {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]state.Op(nil), l.ops...)
}

func (l *opLog) len() int { return len(l.snapshot()) }

func startHub(t *testing.T, hub *Hub) string {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return strings.TrimPrefix(srv.URL, "http://")
}

func dialPeer(t *testing.T, addr string) (*Peer, *opLog) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := Dial(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	got := &opLog{}
	go p.Run(got.add)
	return p, got
}

// owner stands in for the UI goroutine that owns a host canvas.
type owner struct {
	fns  chan func()
	stop chan struct{}
}

func newOwner(t *testing.T) *owner {
	t.Helper()
	o := &owner{fns: make(chan func()), stop: make(chan struct{})}
	go func() {
		for {
			select {
			case fn := <-o.fns:
				fn()
			case <-o.stop:
				return
			}
		}
	}()
	t.Cleanup(func() { close(o.stop) })
	return o
}

func (o *owner) do(fn func()) {
	finished := make(chan struct{})
	select {
	case o.fns <- func() { fn(); close(finished) }:
		<-finished
	case <-o.stop:
	}
}

// replica is a canvas fed by a peer's receive loop.
type replica struct {
	mu     sync.Mutex
	canvas *state.Canvas
}

func joinReplica(t *testing.T, addr string) *replica {
	t.Helper()
	r := &replica{canvas: state.NewCanvas()}
	p, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	go p.Run(func(op state.Op) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.canvas.Apply(op)
	})
	return r
}

func (r *replica) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return itemIDs(r.canvas)
}

func itemIDs(c *state.Canvas) []string {
	ids := []string{}
	for _, it := range c.Committed() {
		ids = append(ids, it.ItemID())
	}
	return ids
}

func strokeOp(id string) state.Op {
	return state.Op{
		Type:   state.OpInsert,
		Stroke: &state.Stroke{ID: id, Width: 3, Points: []state.Point{state.Pt(1, 2)}},
		Site:   "test",
	}
}

func TestHubRelaysBetweenPeers(t *testing.T) {
	hub := NewHub()
	host := &opLog{}
	hub.OnOp = host.add
	addr := startHub(t, hub)

	a, fromA := dialPeer(t, addr)
	_, fromB := dialPeer(t, addr)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send(strokeOp("a-1")))

	require.Eventually(t, func() bool { return fromB.len() == 1 && host.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "a-1", fromB.snapshot()[0].Stroke.ID)
	assert.Equal(t, "a-1", host.snapshot()[0].Stroke.ID)
	// the sender does not get its own op back
	assert.Zero(t, fromA.len())
}

func TestHubBroadcastReachesAllPeers(t *testing.T) {
	hub := NewHub()
	addr := startHub(t, hub)

	_, fromA := dialPeer(t, addr)
	_, fromB := dialPeer(t, addr)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(state.Op{Type: state.OpClear, Site: "host"})
	require.Eventually(t, func() bool { return fromA.len() == 1 && fromB.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, state.OpClear, fromA.snapshot()[0].Type)
}

func TestHubSendsSnapshotOnJoin(t *testing.T) {
	hub := NewHub()
	hub.Snapshot = func() []state.Op {
		return []state.Op{strokeOp("s-1"), strokeOp("s-2")}
	}
	addr := startHub(t, hub)

	_, got := dialPeer(t, addr)
	require.Eventually(t, func() bool { return got.len() == 2 }, 2*time.Second, 10*time.Millisecond)
	ops := got.snapshot()
	assert.Equal(t, "s-1", ops[0].Stroke.ID)
	assert.Equal(t, "s-2", ops[1].Stroke.ID)
}

func TestHubDropsInvalidOps(t *testing.T) {
	hub := NewHub()
	host := &opLog{}
	hub.OnOp = host.add
	addr := startHub(t, hub)

	a, _ := dialPeer(t, addr)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send(state.Op{Type: "paint"}))
	require.NoError(t, a.Send(strokeOp("ok")))
	require.Eventually(t, func() bool { return host.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ok", host.snapshot()[0].Stroke.ID)
}

func TestHubForgetsClosedPeers(t *testing.T) {
	hub := NewHub()
	addr := startHub(t, hub)

	a, _ := dialPeer(t, addr)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestCanvasesConvergeThroughHub(t *testing.T) {
	hub := NewHub()
	addr := startHub(t, hub)

	remote := state.NewCanvas()
	a, _ := dialPeer(t, addr)
	var mu sync.Mutex
	b, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	go b.Run(func(op state.Op) {
		mu.Lock()
		defer mu.Unlock()
		remote.Apply(op)
	})
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	local := state.NewCanvas()
	local.OnOp = func(op state.Op) { require.NoError(t, a.Send(op)) }
	local.PointerDown(state.Pt(0, 0))
	local.PointerMove(state.Pt(4, 4))
	local.PointerUp()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return remote.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, local.Committed()[0].ItemID(), remote.Committed()[0].ItemID())
}

func TestHubQueuesHostOpsBehindSnapshot(t *testing.T) {
	hub := NewHub()
	hub.Snapshot = func() []state.Op {
		return []state.Op{strokeOp("s-1")}
	}
	// a host op issued right after the join must reach the new peer
	hub.Sync = func(fn func()) {
		fn()
		hub.Broadcast(strokeOp("late"))
	}
	addr := startHub(t, hub)

	_, got := dialPeer(t, addr)
	require.Eventually(t, func() bool { return got.len() == 2 }, 2*time.Second, 10*time.Millisecond)
	ops := got.snapshot()
	assert.Equal(t, "s-1", ops[0].Stroke.ID)
	assert.Equal(t, "late", ops[1].Stroke.ID)
}

func TestLateJoinerConvergesWithHost(t *testing.T) {
	own := newOwner(t)
	host := state.NewCanvas()
	hub := NewHub()
	hub.Sync = own.do
	hub.Snapshot = host.Snapshot
	hub.OnOp = func(op state.Op) { host.Apply(op) }
	host.OnOp = hub.Broadcast
	addr := startHub(t, hub)

	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		for i := 0; i < 200; i++ {
			own.do(func() {
				host.PointerDown(state.Pt(float64(i), 0))
				host.PointerUp()
				if i == 100 {
					host.Clear()
				}
			})
		}
	}()

	late := joinReplica(t, addr)
	<-drawn

	var want []string
	own.do(func() { want = itemIDs(host) })
	require.Len(t, want, 99)
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, late.ids())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHubRelaysInHostOrder(t *testing.T) {
	own := newOwner(t)
	host := state.NewCanvas()
	hub := NewHub()
	hub.Sync = own.do
	hub.Snapshot = host.Snapshot
	host.OnOp = hub.Broadcast
	cleared := false
	hub.OnOp = func(op state.Op) {
		// the host clears just before the peer's insert reaches it
		if !cleared {
			cleared = true
			host.Clear()
		}
		host.Apply(op)
	}
	addr := startHub(t, hub)

	a, _ := dialPeer(t, addr)
	b := joinReplica(t, addr)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send(strokeOp("x")))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"x"}, b.ids())
	}, 2*time.Second, 10*time.Millisecond)
	var hostIDs []string
	own.do(func() { hostIDs = itemIDs(host) })
	assert.Equal(t, []string{"x"}, hostIDs)
}

func TestHubDropsStalledPeer(t *testing.T) {
	hub := NewHub()
	addr := startHub(t, hub)

	// connected, but never reads
	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	points := make([]state.Point, 20000)
	for i := range points {
		points[i] = state.Pt(float64(i), float64(i))
	}
	op := state.Op{
		Type:   state.OpInsert,
		Stroke: &state.Stroke{ID: "big", Width: 3, Points: points},
		Site:   "host",
	}

	start := time.Now()
	for i := 0; i < 4*sendQueue && hub.Count() > 0; i++ {
		hub.Broadcast(op)
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, hub.Count())
}

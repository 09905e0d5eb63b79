package state

import (
	"fmt"

	"SketchBoard/internal/palette"
)

// DefaultEraserRadius is how far from the pointer the eraser reaches.
const DefaultEraserRadius = 30.0

// DefaultPenWidth is the freehand stroke width of a new canvas.
const DefaultPenWidth = 3.0

// Gesture is the tracker state between pointer-down and pointer-up.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureDrawing
	GestureErasing
)

func (g Gesture) String() string {
	switch g {
	case GestureDrawing:
		return "drawing"
	case GestureErasing:
		return "erasing"
	}
	return "idle"
}

// Canvas turns pointer gestures into committed strokes and shapes.
//
// A Canvas has a single writer: every method must be called from the
// goroutine that delivers pointer events. Remote mutations go through Apply
// on that same goroutine.
type Canvas struct {
	clock *Clock

	tool         Tool
	color        palette.RGB
	penWidth     float64
	eraserRadius float64

	committed []Item
	pending   Item
	gesture   Gesture

	listeners []func()

	// OnOp receives every local mutation, for sharing with peers.
	OnOp func(Op)
}

func NewCanvas() *Canvas {
	return &Canvas{
		clock:        NewClock(),
		tool:         ToolFreeDraw,
		color:        palette.Black,
		penWidth:     DefaultPenWidth,
		eraserRadius: DefaultEraserRadius,
	}
}

// OnChange registers fn to run after every mutation of committed or pending.
func (c *Canvas) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

func (c *Canvas) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}

func (c *Canvas) emit(op Op) {
	op.Lamport = c.clock.Tick()
	op.Site = c.clock.Site()
	if c.OnOp != nil {
		c.OnOp(op)
	}
}

func (c *Canvas) Site() string          { return c.clock.Site() }
func (c *Canvas) Tool() Tool            { return c.tool }
func (c *Canvas) Color() palette.RGB    { return c.color }
func (c *Canvas) PenWidth() float64     { return c.penWidth }
func (c *Canvas) EraserRadius() float64 { return c.eraserRadius }
func (c *Canvas) Gesture() Gesture      { return c.gesture }

// SetTool switches tools. An open gesture is abandoned: its pending item is
// discarded and the next pointer-up does nothing.
func (c *Canvas) SetTool(t Tool) error {
	if _, ok := toolNames[t]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTool, int(t))
	}
	c.tool = t
	if c.gesture == GestureIdle {
		return nil
	}
	hadPending := c.pending != nil
	c.pending = nil
	c.gesture = GestureIdle
	if hadPending {
		c.notify()
	}
	return nil
}

// SetColor sets the colour of items started from now on.
func (c *Canvas) SetColor(col palette.RGB) { c.color = col }

// SetPenWidth sets the width of strokes started from now on.
func (c *Canvas) SetPenWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, w)
	}
	c.penWidth = w
	return nil
}

func (c *Canvas) SetEraserRadius(r float64) error {
	if !(r > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, r)
	}
	c.eraserRadius = r
	return nil
}

// Committed returns the committed items in insertion order. The slice is a
// copy; the items themselves are immutable and must not be modified.
func (c *Canvas) Committed() []Item {
	out := make([]Item, len(c.committed))
	copy(out, c.committed)
	return out
}

// Len is the number of committed items.
func (c *Canvas) Len() int { return len(c.committed) }

// Pending is the in-progress item, or nil.
func (c *Canvas) Pending() Item { return c.pending }

// PointerDown starts a gesture at p with the current tool settings.
func (c *Canvas) PointerDown(p Point) {
	if c.gesture != GestureIdle {
		c.PointerUp()
	}

	if c.tool == ToolEraser {
		c.gesture = GestureErasing
		c.erase(p)
		return
	}

	if c.tool == ToolFreeDraw {
		c.pending = &Stroke{
			ID:     c.clock.NextID(),
			Color:  c.color,
			Width:  c.penWidth,
			Points: []Point{p},
		}
	} else {
		c.pending = &Shape{
			ID:    c.clock.NextID(),
			Kind:  c.tool,
			Start: p,
			End:   p,
			Color: c.color,
			Width: ShapeWidth,
		}
	}
	c.gesture = GestureDrawing
	c.notify()
}

// PointerMove extends the pending item or runs another eraser pass.
func (c *Canvas) PointerMove(p Point) {
	switch c.gesture {
	case GestureErasing:
		c.erase(p)
	case GestureDrawing:
		switch it := c.pending.(type) {
		case *Stroke:
			it.Points = append(it.Points, p)
		case *Shape:
			it.End = p
		default:
			return
		}
		c.notify()
	}
}

// PointerUp commits the pending item. Without an open gesture it is a no-op.
func (c *Canvas) PointerUp() {
	switch c.gesture {
	case GestureErasing:
		c.gesture = GestureIdle
	case GestureDrawing:
		it := c.pending
		c.pending = nil
		c.gesture = GestureIdle
		if it == nil {
			return
		}
		c.committed = append(c.committed, it)
		logger().Debug("item committed", "id", it.ItemID(), "count", len(c.committed))
		c.emit(insertOp(it))
		c.notify()
	}
}

// Clear drops every committed item and any gesture in progress.
func (c *Canvas) Clear() {
	c.reset()
	c.emit(Op{Type: OpClear})
	c.notify()
}

func (c *Canvas) reset() {
	c.committed = nil
	c.pending = nil
	c.gesture = GestureIdle
}

// Apply merges an op received from a peer. Inserts already present are
// ignored, as are deletes of unknown items. Applied ops are not re-emitted.
func (c *Canvas) Apply(op Op) error {
	if err := op.Validate(); err != nil {
		return err
	}
	c.clock.Update(op.Lamport)

	switch op.Type {
	case OpInsert:
		it := cloneItem(op.Item())
		if c.indexOf(it.ItemID()) >= 0 {
			logger().Debug("duplicate insert ignored", "id", it.ItemID())
			return nil
		}
		c.committed = append(c.committed, it)
	case OpDelete:
		i := c.indexOf(op.Target)
		if i < 0 {
			return nil
		}
		c.committed = append(c.committed[:i], c.committed[i+1:]...)
	case OpClear:
		c.reset()
	}
	logger().Debug("remote op applied", "type", op.Type, "site", op.Site, "lamport", op.Lamport)
	c.notify()
	return nil
}

func (c *Canvas) indexOf(id string) int {
	for i, it := range c.committed {
		if it.ItemID() == id {
			return i
		}
	}
	return -1
}

// Snapshot returns insert ops reproducing the committed items, for a peer
// that joins late.
func (c *Canvas) Snapshot() []Op {
	ops := make([]Op, 0, len(c.committed))
	for _, it := range c.committed {
		op := insertOp(it)
		op.Lamport = c.clock.Now()
		op.Site = c.clock.Site()
		ops = append(ops, op)
	}
	return ops
}

// Package render maps canvas items to ordered vector primitives. It is pure:
// the same items always produce the same primitives, and nothing is mutated.
package render

import (
	"SketchBoard/internal/palette"
	"SketchBoard/internal/state"
)

type Kind int

const (
	// Polyline is a freehand stroke with two or more points.
	Polyline Kind = iota
	// Dot is a one-point stroke: a zero-length path with round caps,
	// which paints a filled disc of the stroke width.
	Dot
	Segment
	Circle
	Rect
)

func (k Kind) String() string {
	switch k {
	case Polyline:
		return "polyline"
	case Dot:
		return "dot"
	case Segment:
		return "segment"
	case Circle:
		return "circle"
	case Rect:
		return "rect"
	}
	return "unknown"
}

// Primitive is one drawable element. Which geometry fields are set depends
// on Kind:
//
//	Polyline  Points
//	Dot       Center (radius is Width/2)
//	Segment   Points[0], Points[1]
//	Circle    Center, Radius
//	Rect      Box
type Primitive struct {
	Kind   Kind
	ID     string
	Color  palette.RGB
	Width  float64
	Round  bool // round caps and joins
	Points []state.Point
	Center state.Point
	Radius float64
	Box    state.Rect
}

// Render draws committed items in insertion order, so later items sit on
// top, followed by the pending item if there is one.
func Render(committed []state.Item, pending state.Item) []Primitive {
	out := make([]Primitive, 0, len(committed)+1)
	for _, it := range committed {
		if p, ok := Item(it); ok {
			out = append(out, p)
		}
	}
	if pending != nil {
		if p, ok := Item(pending); ok {
			out = append(out, p)
		}
	}
	return out
}

// Canvas renders the current state of c.
func Canvas(c *state.Canvas) []Primitive {
	return Render(c.Committed(), c.Pending())
}

// Item renders a single stroke or shape. Strokes without points and unknown
// item types produce nothing.
func Item(it state.Item) (Primitive, bool) {
	switch v := it.(type) {
	case *state.Stroke:
		return stroke(v)
	case *state.Shape:
		return shape(v)
	}
	return Primitive{}, false
}

func stroke(s *state.Stroke) (Primitive, bool) {
	p := Primitive{ID: s.ID, Color: s.Color, Width: s.Width, Round: true}
	switch len(s.Points) {
	case 0:
		return Primitive{}, false
	case 1:
		p.Kind = Dot
		p.Center = s.Points[0]
		p.Radius = s.Width / 2
	default:
		p.Kind = Polyline
		p.Points = append([]state.Point(nil), s.Points...)
	}
	return p, true
}

func shape(s *state.Shape) (Primitive, bool) {
	p := Primitive{ID: s.ID, Color: s.Color, Width: s.Width}
	switch s.Kind {
	case state.ToolLine:
		p.Kind = Segment
		p.Points = []state.Point{s.Start, s.End}
	case state.ToolCircle:
		p.Kind = Circle
		p.Center = s.Center()
		p.Radius = s.Radius()
	case state.ToolRectangle:
		p.Kind = Rect
		p.Box = s.Rect()
	default:
		return Primitive{}, false
	}
	return p, true
}

// Translate returns prims moved by (dx, dy). prims is not modified.
func Translate(prims []Primitive, dx, dy float64) []Primitive {
	move := func(p state.Point) state.Point { return state.Pt(p.X+dx, p.Y+dy) }
	out := make([]Primitive, len(prims))
	for i, p := range prims {
		if p.Points != nil {
			pts := make([]state.Point, len(p.Points))
			for j, pt := range p.Points {
				pts[j] = move(pt)
			}
			p.Points = pts
		}
		p.Center = move(p.Center)
		p.Box.X += dx
		p.Box.Y += dy
		out[i] = p
	}
	return out
}

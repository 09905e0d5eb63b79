package state

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"SketchBoard/internal/palette"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrInvalidWidth  = errors.New("pen width must be positive")
	ErrInvalidRadius = errors.New("eraser radius must be positive")
	ErrInvalidOp     = errors.New("invalid op")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Dist is the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid is the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

type Tool int

const (
	ToolFreeDraw Tool = iota
	ToolLine
	ToolCircle
	ToolRectangle
	ToolEraser
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolFreeDraw, ToolLine, ToolCircle, ToolRectangle, ToolEraser}

var toolNames = map[Tool]string{
	ToolFreeDraw:  "free",
	ToolLine:      "line",
	ToolCircle:    "circle",
	ToolRectangle: "rectangle",
	ToolEraser:    "eraser",
}

var toolLabels = map[Tool]string{
	ToolFreeDraw:  "Free Draw",
	ToolLine:      "Line",
	ToolCircle:    "Circle",
	ToolRectangle: "Rectangle",
	ToolEraser:    "Eraser",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// Label is the human readable name shown in the toolbar.
func (t Tool) Label() string {
	return toolLabels[t]
}

// IsShape reports whether the tool produces a two-corner Shape.
func (t Tool) IsShape() bool {
	return t == ToolLine || t == ToolCircle || t == ToolRectangle
}

// ParseTool accepts the names printed by String and the toolbar labels.
func ParseTool(s string) (Tool, error) {
	s = strings.TrimSpace(s)
	for t, n := range toolNames {
		if strings.EqualFold(s, n) || strings.EqualFold(s, toolLabels[t]) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

func (t Tool) MarshalText() ([]byte, error) {
	if _, ok := toolNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTool, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Union grows r to cover o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Item is a committed or pending Stroke or Shape.
type Item interface {
	ItemID() string
	// Near reports whether an eraser at p with radius r hits the item.
	Near(p Point, r float64) bool
	// Bounds covers everything the item paints.
	Bounds() Rect
}

// Stroke is a freehand polyline. It keeps its own colour and width so later
// tool changes never restyle it.
type Stroke struct {
	ID     string      `json:"id"`
	Color  palette.RGB `json:"color"`
	Width  float64     `json:"width"`
	Points []Point     `json:"points"`
}

func (s *Stroke) ItemID() string { return s.ID }

// Near tests the recorded sample points only, not the segments between
// them. Pointer-move sampling is dense enough for this in practice.
func (s *Stroke) Near(p Point, r float64) bool {
	for _, q := range s.Points {
		if p.Dist(q) <= r {
			return true
		}
	}
	return false
}

func (s *Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, q := range s.Points[1:] {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	pad := s.Width / 2
	return Rect{X: minX - pad, Y: minY - pad, W: maxX - minX + 2*pad, H: maxY - minY + 2*pad}
}

func (s *Stroke) clone() *Stroke {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

// ShapeWidth is the outline width of every shape.
const ShapeWidth = 2.0

// Shape is a line, circle or rectangle spanned by two corners.
type Shape struct {
	ID    string      `json:"id"`
	Kind  Tool        `json:"kind"`
	Start Point       `json:"start"`
	End   Point       `json:"end"`
	Color palette.RGB `json:"color"`
	Width float64     `json:"width"`
}

func (s *Shape) ItemID() string { return s.ID }

// Center is the midpoint of the two corners, also the circle centre.
func (s *Shape) Center() Point { return s.Start.Mid(s.End) }

// Radius is half the corner distance.
func (s *Shape) Radius() float64 { return s.Start.Dist(s.End) / 2 }

// Rect is the axis-aligned box spanning the corners.
func (s *Shape) Rect() Rect {
	return Rect{
		X: math.Min(s.Start.X, s.End.X),
		Y: math.Min(s.Start.Y, s.End.Y),
		W: math.Abs(s.End.X - s.Start.X),
		H: math.Abs(s.End.Y - s.Start.Y),
	}
}

// Near tests distance to the centroid, not to the outline: a large shape
// can be erased from its middle and an edge touch may miss.
func (s *Shape) Near(p Point, r float64) bool {
	return p.Dist(s.Center()) <= r
}

func (s *Shape) Bounds() Rect {
	var b Rect
	if s.Kind == ToolCircle {
		c, r := s.Center(), s.Radius()
		b = Rect{X: c.X - r, Y: c.Y - r, W: 2 * r, H: 2 * r}
	} else {
		b = s.Rect()
	}
	pad := s.Width / 2
	return Rect{X: b.X - pad, Y: b.Y - pad, W: b.W + 2*pad, H: b.H + 2*pad}
}

func (s *Shape) clone() *Shape {
	c := *s
	return &c
}

// ContentBounds is the union of the item bounds; ok is false for no items.
func ContentBounds(items []Item) (r Rect, ok bool) {
	for i, it := range items {
		if i == 0 {
			r = it.Bounds()
			continue
		}
		r = r.Union(it.Bounds())
	}
	return r, len(items) > 0
}

func cloneItem(it Item) Item {
	switch v := it.(type) {
	case *Stroke:
		return v.clone()
	case *Shape:
		return v.clone()
	}
	return it
}

package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/render"
	"SketchBoard/internal/state"
)

// BoardWidget feeds pointer events to a state.Canvas and draws its
// primitives. All canvas access happens on the fyne main goroutine; other
// goroutines go through Apply and Sync.
type BoardWidget struct {
	widget.BaseWidget
	canvas  *state.Canvas
	minSize fyne.Size
	status  *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(c *state.Canvas, width, height float32) *BoardWidget {
	b := &BoardWidget{
		canvas:  c,
		minSize: fyne.NewSize(width, height),
		status:  widget.NewLabel("Ready"),
	}
	b.ExtendBaseWidget(b)
	c.OnChange(b.Refresh)
	return b
}

// Canvas is the drawing state behind the widget.
func (b *BoardWidget) Canvas() *state.Canvas { return b.canvas }

// StatusLabel is shown under the board.
func (b *BoardWidget) StatusLabel() *widget.Label { return b.status }

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.status.SetText(text)
	})
}

// Apply merges an op from a peer. Safe to call from any goroutine.
func (b *BoardWidget) Apply(op state.Op) {
	fyne.Do(func() {
		b.Merge(op)
	})
}

// Merge is Apply for code already running on the main goroutine.
func (b *BoardWidget) Merge(op state.Op) {
	if err := b.canvas.Apply(op); err != nil {
		log.Printf("[BOARD] rejected %s op from %s: %v", op.Type, op.Site, err)
	}
}

// Sync runs fn on the main goroutine and waits for it. It must not be
// called from the main goroutine.
func (b *BoardWidget) Sync(fn func()) {
	fyne.DoAndWait(fn)
}

func toPoint(p fyne.Position) state.Point {
	return state.Pt(float64(p.X), float64(p.Y))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.canvas.PointerDown(toPoint(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.canvas.PointerUp()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.canvas.PointerMove(toPoint(e.Position))
}

// DragEnd ends the gesture on touch screens, where MouseUp never arrives.
// After a MouseUp it is a no-op.
func (b *BoardWidget) DragEnd() {
	b.canvas.PointerUp()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.rebuild()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) rebuild() {
	objects := []fyne.CanvasObject{r.background}
	for _, p := range render.Canvas(r.board.canvas) {
		objects = append(objects, primitiveObjects(p)...)
	}
	r.objects = objects
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardWidgetRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return r.board.minSize }
func (r *boardWidgetRenderer) Destroy()           {}

func pos(p state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

// disc is a filled circle of radius r around c.
func disc(c state.Point, r float64, col color.Color) *canvas.Circle {
	d := canvas.NewCircle(col)
	d.Position1 = pos(state.Pt(c.X-r, c.Y-r))
	d.Position2 = pos(state.Pt(c.X+r, c.Y+r))
	return d
}

// primitiveObjects converts one primitive to fyne objects. fyne lines have
// butt caps, so round strokes get a disc at every sample point.
func primitiveObjects(p render.Primitive) []fyne.CanvasObject {
	col := p.Color.NRGBA()
	width := float32(p.Width)

	switch p.Kind {
	case render.Polyline:
		objs := make([]fyne.CanvasObject, 0, 2*len(p.Points))
		for i := 1; i < len(p.Points); i++ {
			seg := canvas.NewLine(col)
			seg.StrokeWidth = width
			seg.Position1 = pos(p.Points[i-1])
			seg.Position2 = pos(p.Points[i])
			objs = append(objs, seg)
		}
		if p.Round {
			for _, pt := range p.Points {
				objs = append(objs, disc(pt, p.Width/2, col))
			}
		}
		return objs
	case render.Dot:
		return []fyne.CanvasObject{disc(p.Center, p.Radius, col)}
	case render.Segment:
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = pos(p.Points[0])
		line.Position2 = pos(p.Points[1])
		return []fyne.CanvasObject{line}
	case render.Circle:
		c := canvas.NewCircle(color.Transparent)
		c.StrokeColor = col
		c.StrokeWidth = width
		c.Position1 = pos(state.Pt(p.Center.X-p.Radius, p.Center.Y-p.Radius))
		c.Position2 = pos(state.Pt(p.Center.X+p.Radius, p.Center.Y+p.Radius))
		return []fyne.CanvasObject{c}
	case render.Rect:
		rect := canvas.NewRectangle(color.Transparent)
		rect.StrokeColor = col
		rect.StrokeWidth = width
		rect.Move(pos(state.Pt(p.Box.X, p.Box.Y)))
		rect.Resize(fyne.NewSize(float32(p.Box.W), float32(p.Box.H)))
		return []fyne.CanvasObject{rect}
	}
	return nil
}

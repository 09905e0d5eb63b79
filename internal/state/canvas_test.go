package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/palette"
)

func newTestCanvas(t *testing.T, tool Tool) *Canvas {
	t.Helper()
	c := NewCanvas()
	require.NoError(t, c.SetTool(tool))
	return c
}

func TestFreeDrawCommitsEveryPoint(t *testing.T) {
	for n := 0; n < 5; n++ {
		c := newTestCanvas(t, ToolFreeDraw)
		c.PointerDown(Pt(0, 0))
		for i := 1; i <= n; i++ {
			c.PointerMove(Pt(float64(i), float64(2*i)))
		}
		c.PointerUp()

		items := c.Committed()
		require.Len(t, items, 1)
		s := items[0].(*Stroke)
		require.Len(t, s.Points, n+1)
		for i, p := range s.Points {
			assert.Equal(t, Pt(float64(i), float64(2*i)), p)
		}
		assert.Nil(t, c.Pending())
		assert.Equal(t, GestureIdle, c.Gesture())
	}
}

func TestStrokeKeepsSettingsFromPointerDown(t *testing.T) {
	c := NewCanvas()
	red := palette.RGB{R: 255}
	c.SetColor(red)
	require.NoError(t, c.SetPenWidth(7))

	c.PointerDown(Pt(1, 1))
	c.SetColor(palette.RGB{B: 255})
	require.NoError(t, c.SetPenWidth(1))
	c.PointerMove(Pt(2, 2))
	c.PointerUp()

	s := c.Committed()[0].(*Stroke)
	assert.Equal(t, red, s.Color)
	assert.Equal(t, 7.0, s.Width)
}

func TestShapeCorners(t *testing.T) {
	for _, tool := range []Tool{ToolLine, ToolCircle, ToolRectangle} {
		c := newTestCanvas(t, tool)
		c.PointerDown(Pt(10, 10))
		c.PointerMove(Pt(20, 10))
		c.PointerMove(Pt(20, 20))
		c.PointerUp()

		s := c.Committed()[0].(*Shape)
		assert.Equal(t, tool, s.Kind)
		assert.Equal(t, Pt(10, 10), s.Start)
		assert.Equal(t, Pt(20, 20), s.End)
		assert.Equal(t, ShapeWidth, s.Width)
	}
}

func TestShapeWithoutMoveEndsAtStart(t *testing.T) {
	c := newTestCanvas(t, ToolCircle)
	c.PointerDown(Pt(5, 6))
	c.PointerUp()

	s := c.Committed()[0].(*Shape)
	assert.Equal(t, s.Start, s.End)
	assert.Zero(t, s.Radius())
}

func TestShapeGeometry(t *testing.T) {
	s := &Shape{Kind: ToolCircle, Start: Pt(0, 0), End: Pt(6, 8)}
	assert.Equal(t, 5.0, s.Radius())
	assert.Equal(t, Pt(3, 4), s.Center())

	r := (&Shape{Kind: ToolRectangle, Start: Pt(20, 5), End: Pt(10, 25)}).Rect()
	assert.Equal(t, Rect{X: 10, Y: 5, W: 10, H: 20}, r)
}

func TestPendingIsNotCommitted(t *testing.T) {
	c := NewCanvas()
	c.PointerDown(Pt(1, 1))
	c.PointerMove(Pt(2, 2))

	assert.Zero(t, c.Len())
	require.NotNil(t, c.Pending())
	assert.Equal(t, GestureDrawing, c.Gesture())
}

func TestStrayEventsAreIgnored(t *testing.T) {
	c := NewCanvas()
	changes := 0
	c.OnChange(func() { changes++ })

	c.PointerMove(Pt(1, 1))
	c.PointerUp()
	assert.Zero(t, c.Len())
	assert.Zero(t, changes)
}

func TestToolSwitchMidGestureDiscardsPending(t *testing.T) {
	c := NewCanvas()
	c.PointerDown(Pt(1, 1))
	c.PointerMove(Pt(3, 3))
	require.NoError(t, c.SetTool(ToolRectangle))

	assert.Nil(t, c.Pending())
	c.PointerMove(Pt(4, 4))
	c.PointerUp()
	assert.Zero(t, c.Len())
}

func TestPointerDownWhileDrawingCommitsFirst(t *testing.T) {
	c := NewCanvas()
	c.PointerDown(Pt(1, 1))
	c.PointerDown(Pt(9, 9))
	c.PointerUp()
	assert.Equal(t, 2, c.Len())
}

func TestSettersValidate(t *testing.T) {
	c := NewCanvas()
	assert.ErrorIs(t, c.SetPenWidth(0), ErrInvalidWidth)
	assert.ErrorIs(t, c.SetPenWidth(-3), ErrInvalidWidth)
	assert.Equal(t, DefaultPenWidth, c.PenWidth())

	assert.ErrorIs(t, c.SetEraserRadius(0), ErrInvalidRadius)
	assert.Equal(t, DefaultEraserRadius, c.EraserRadius())

	assert.ErrorIs(t, c.SetTool(Tool(42)), ErrUnknownTool)
	assert.Equal(t, ToolFreeDraw, c.Tool())
}

func TestClearResetsEverything(t *testing.T) {
	c := NewCanvas()
	c.PointerDown(Pt(1, 1))
	c.PointerUp()
	c.PointerDown(Pt(5, 5))
	c.PointerMove(Pt(6, 6))

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Pending())
	assert.Equal(t, GestureIdle, c.Gesture())

	// the abandoned gesture does not come back on pointer-up
	c.PointerUp()
	assert.Zero(t, c.Len())
}

func TestItemIDsAreUnique(t *testing.T) {
	c := NewCanvas()
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		c.PointerDown(Pt(float64(i), 0))
		c.PointerUp()
	}
	for _, it := range c.Committed() {
		assert.False(t, seen[it.ItemID()])
		seen[it.ItemID()] = true
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)

		got, err = ParseTool(tool.Label())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("spray")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestContentBounds(t *testing.T) {
	_, ok := ContentBounds(nil)
	assert.False(t, ok)

	items := []Item{
		&Stroke{Width: 2, Points: []Point{Pt(10, 10), Pt(20, 30)}},
		&Shape{Kind: ToolCircle, Start: Pt(40, 40), End: Pt(60, 40), Width: 2},
	}
	r, ok := ContentBounds(items)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 9, Y: 9, W: 52, H: 42}, r)
}

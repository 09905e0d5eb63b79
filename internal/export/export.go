// Package export writes rendered primitives to SVG and PDF files.
package export

import (
	"fmt"
	"log"
	"math"
	"os"

	"SketchBoard/internal/render"
	"SketchBoard/internal/state"
)

// Format is an export file type.
type Format string

const (
	SVG Format = "svg"
	PDF Format = "pdf"
)

// Page is the board area to export: the w x h canvas, grown on every side
// to whole units so nothing drawn past an edge is cut off.
func Page(items []state.Item, w, h float64) state.Rect {
	page := state.Rect{W: w, H: h}
	b, ok := state.ContentBounds(items)
	if !ok {
		return page
	}
	page = page.Union(b)
	x, y := math.Floor(page.X), math.Floor(page.Y)
	return state.Rect{X: x, Y: y, W: math.Ceil(page.X+page.W) - x, H: math.Ceil(page.Y+page.H) - y}
}

// Save writes the page area of prims to path in the given format. The
// page's top-left corner becomes the document origin.
func Save(path string, f Format, page state.Rect, prims []render.Primitive) error {
	if page.X != 0 || page.Y != 0 {
		prims = render.Translate(prims, -page.X, -page.Y)
	}
	w, h := page.W, page.H

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch f {
	case SVG:
		err = WriteSVG(out, w, h, prims)
	case PDF:
		err = WritePDF(out, w, h, prims)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", path, cerr)
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	log.Printf("[EXPORT] wrote %d primitives to %s", len(prims), path)
	return nil
}

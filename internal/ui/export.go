package ui

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"SketchBoard/internal/export"
	"SketchBoard/internal/render"
)

// ExportBoard writes the board to dir as "sketch <timestamp>.<format>" and
// returns the file path. The page is at least width x height and grows to
// fit anything drawn beyond it, on any side.
func ExportBoard(b *BoardWidget, f export.Format, dir string, width, height float64) (string, error) {
	c := b.Canvas()
	committed := c.Committed()
	page := export.Page(committed, width, height)

	name := fmt.Sprintf("sketch %s.%s", time.Now().Format("2006-01-02_150405"), f)
	path := filepath.Join(dir, name)
	if err := export.Save(path, f, page, render.Render(committed, nil)); err != nil {
		log.Printf("[EXPORT] %v", err)
		return "", err
	}
	return path, nil
}

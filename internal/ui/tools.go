package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/config"
	"SketchBoard/internal/export"
	"SketchBoard/internal/palette"
	"SketchBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Swatch   palette.Swatch
	OnTapped func(palette.RGB)
}

func newColorSwatch(s palette.Swatch, tapped func(palette.RGB)) *colorSwatch {
	sw := &colorSwatch{Swatch: s, OnTapped: tapped}
	sw.ExtendBaseWidget(sw)
	return sw
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Swatch.Color.NRGBA())
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Swatch.Color)
	}
}

// pickArea is a raster that reports taps and drags in its own coordinates.
type pickArea struct {
	widget.BaseWidget
	raster *canvas.Raster
	onPick func(p fyne.Position, size fyne.Size)
}

func newPickArea(raster *canvas.Raster, min fyne.Size, onPick func(fyne.Position, fyne.Size)) *pickArea {
	raster.SetMinSize(min)
	a := &pickArea{raster: raster, onPick: onPick}
	a.ExtendBaseWidget(a)
	return a
}

func (a *pickArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.raster)
}

func (a *pickArea) Tapped(e *fyne.PointEvent) { a.onPick(e.Position, a.Size()) }
func (a *pickArea) Dragged(e *fyne.DragEvent) { a.onPick(e.Position, a.Size()) }
func (a *pickArea) DragEnd()                  {}

// newColorPicker builds the saturation/lightness surface, the hue bar, the
// swatches and a preview, all driving picker.
func newColorPicker(picker *palette.Picker) (fyne.CanvasObject, func()) {
	surface := newPickArea(
		canvas.NewRasterWithPixels(func(x, y, w, h int) color.Color {
			hsl := palette.HSL{
				H: picker.HSL().H,
				S: float64(x) / float64(w) * 100,
				L: (1 - float64(y)/float64(h)) * 100,
			}
			return palette.HSLToRGB(hsl).NRGBA()
		}),
		fyne.NewSize(120, 60),
		func(p fyne.Position, size fyne.Size) {
			picker.SetFromSurface(float64(p.X), float64(p.Y), float64(size.Width), float64(size.Height))
		},
	)

	hueBar := newPickArea(
		canvas.NewRasterWithPixels(func(x, _, w, _ int) color.Color {
			return palette.HSLToRGB(palette.HSL{H: float64(x) / float64(w) * 360, S: 100, L: 50}).NRGBA()
		}),
		fyne.NewSize(120, 14),
		func(p fyne.Position, size fyne.Size) {
			picker.SetFromHueSlider(float64(p.X), float64(size.Width))
		},
	)

	preview := canvas.NewRectangle(picker.Color().NRGBA())
	preview.SetMinSize(fyne.NewSize(24, 24))
	previewLabel := widget.NewLabel(palette.SwatchName(picker.Color()))

	swatches := container.NewGridWithColumns(5)
	for _, s := range palette.Swatches {
		swatches.Add(newColorSwatch(s, picker.SelectSwatch))
	}

	refresh := func() {
		preview.FillColor = picker.Color().NRGBA()
		preview.Refresh()
		previewLabel.SetText(palette.SwatchName(picker.Color()))
		surface.raster.Refresh()
	}

	return container.NewHBox(
		container.NewVBox(surface, hueBar),
		swatches,
		container.NewVBox(preview, previewLabel),
	), refresh
}

// --- The Main Toolbar ---
func NewToolbar(board *BoardWidget, conf config.Config) fyne.CanvasObject {
	c := board.Canvas()

	// --- Tool selector ---
	labels := make([]string, 0, len(state.Tools))
	for _, t := range state.Tools {
		labels = append(labels, t.Label())
	}
	toolSelect := widget.NewSelect(labels, func(label string) {
		t, err := state.ParseTool(label)
		if err != nil {
			board.SetStatus(err.Error())
			return
		}
		if err := c.SetTool(t); err != nil {
			board.SetStatus(err.Error())
		}
	})
	toolSelect.SetSelected(c.Tool().Label())

	// --- Color picker ---
	picker := palette.NewPicker(c.Color())
	pickerBox, refreshPicker := newColorPicker(picker)
	picker.OnChanged = func(col palette.RGB) {
		c.SetColor(col)
		refreshPicker()
	}

	// --- Pen width ---
	widthLabel := widget.NewLabel(fmt.Sprintf("%.0f", c.PenWidth()))
	widthSlider := widget.NewSlider(1.0, 50.0)
	widthSlider.SetValue(c.PenWidth())
	widthSlider.OnChanged = func(val float64) {
		if err := c.SetPenWidth(val); err != nil {
			board.SetStatus(err.Error())
			return
		}
		widthLabel.SetText(fmt.Sprintf("%.0f", val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), widthSlider)

	exportAs := func(f export.Format) func() {
		return func() {
			path, err := ExportBoard(board, f, conf.ExportDir, conf.Width, conf.Height)
			if err != nil {
				board.SetStatus(fmt.Sprintf("Export failed: %v", err))
				return
			}
			board.SetStatus("Exported " + path)
		}
	}

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), c.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), exportAs(export.SVG)),
		widget.NewToolbarAction(theme.FileIcon(), exportAs(export.PDF)),
	)

	// --- Assemble everything ---
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		pickerBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widthLabel,
		layout.NewSpacer(),
		actions,
	)
}

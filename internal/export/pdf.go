package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"SketchBoard/internal/palette"
	"SketchBoard/internal/render"
)

// WritePDF writes a single page of width x height points, one canvas unit
// per point.
func WritePDF(w io.Writer, width, height float64, prims []render.Primitive) error {
	// "L" would swap the given size, so the page is always declared portrait.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("SketchBoard", true)
	p.AddPage()

	for _, prim := range prims {
		setColor(p, prim.Color)
		p.SetLineWidth(prim.Width)

		switch prim.Kind {
		case render.Polyline:
			p.SetLineCapStyle("round")
			p.SetLineJoinStyle("round")
			p.MoveTo(prim.Points[0].X, prim.Points[0].Y)
			for _, pt := range prim.Points[1:] {
				p.LineTo(pt.X, pt.Y)
			}
			p.DrawPath("D")
		case render.Dot:
			p.Circle(prim.Center.X, prim.Center.Y, prim.Radius, "F")
		case render.Segment:
			p.SetLineCapStyle("butt")
			p.Line(prim.Points[0].X, prim.Points[0].Y, prim.Points[1].X, prim.Points[1].Y)
		case render.Circle:
			p.Circle(prim.Center.X, prim.Center.Y, prim.Radius, "D")
		case render.Rect:
			p.SetLineJoinStyle("miter")
			p.Rect(prim.Box.X, prim.Box.Y, prim.Box.W, prim.Box.H, "D")
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setColor(p *gofpdf.Fpdf, c palette.RGB) {
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.SetFillColor(int(c.R), int(c.G), int(c.B))
}

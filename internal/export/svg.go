package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"SketchBoard/internal/render"
)

// WriteSVG writes a w x h SVG document on a white background with one
// element per primitive, in order.
func WriteSVG(w io.Writer, width, height float64, prims []render.Primitive) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(width), num(height), num(width), num(height))
	fmt.Fprintf(bw, `  <rect x="0" y="0" width="%s" height="%s" fill="#FFFFFF"/>`+"\n", num(width), num(height))

	for _, p := range prims {
		col := p.Color.Hex()
		switch p.Kind {
		case render.Polyline:
			fmt.Fprintf(bw, `  <path d="%s" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" fill="none"/>`+"\n",
				pathData(p), col, num(p.Width))
		case render.Dot:
			fmt.Fprintf(bw, `  <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
				num(p.Center.X), num(p.Center.Y), num(p.Radius), col)
		case render.Segment:
			fmt.Fprintf(bw, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
				num(p.Points[0].X), num(p.Points[0].Y), num(p.Points[1].X), num(p.Points[1].Y), col, num(p.Width))
		case render.Circle:
			fmt.Fprintf(bw, `  <circle cx="%s" cy="%s" r="%s" stroke="%s" stroke-width="%s" fill="none"/>`+"\n",
				num(p.Center.X), num(p.Center.Y), num(p.Radius), col, num(p.Width))
		case render.Rect:
			fmt.Fprintf(bw, `  <rect x="%s" y="%s" width="%s" height="%s" stroke="%s" stroke-width="%s" fill="none"/>`+"\n",
				num(p.Box.X), num(p.Box.Y), num(p.Box.W), num(p.Box.H), col, num(p.Width))
		}
	}

	fmt.Fprintln(bw, `</svg>`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func pathData(p render.Primitive) string {
	var sb strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(pt.X))
		sb.WriteByte(' ')
		sb.WriteString(num(pt.Y))
	}
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/copulab/internal/analysis"
	"github.com/san-kum/copulab/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)
	height := int(float64(canvas.Height) * scale * 4)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	canvas.EachDot(func(x, y int) {
		cx := float64(x)*scale + scale/2
		cy := float64(y)*scale + scale/2
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// BrailleToSVG plots s on a cols x rows braille canvas, the same grid the
// live view draws, and renders its dots.
func BrailleToSVG(s *analysis.Scatter, cols, rows int, scale float64) string {
	if s == nil || len(s.Points) == 0 || cols <= 0 || rows <= 0 || scale <= 0 {
		return ""
	}
	canvas := viz.NewCanvas(cols, rows)
	for _, p := range s.Points {
		canvas.PlotUnit(p.X, p.Y)
	}
	return CanvasToSVG(canvas, scale)
}

// ScatterToSVG draws the points of s on the unit square, with a frame and
// the diagonal u = v as a reference line.
func ScatterToSVG(s *analysis.Scatter, size int, color string) string {
	if s == nil || len(s.Points) == 0 || size <= 0 {
		return ""
	}
	if color == "" {
		color = "#00ccff"
	}

	pad := float64(size) * 0.05
	side := float64(size) - 2*pad
	radius := side / 400
	if radius < 0.5 {
		radius = 0.5
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size)
	fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"none\" stroke=\"#444466\"/>\n",
		pad, pad, side, side)
	fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#333344\" stroke-dasharray=\"4 4\"/>\n",
		pad, pad+side, pad+side, pad)
	fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"#888899\" font-size=\"10\">u%d</text>\n",
		pad+side/2, float64(size)-2, s.XIndex)
	fmt.Fprintf(&sb, "<text x=\"2\" y=\"%.1f\" fill=\"#888899\" font-size=\"10\">u%d</text>\n",
		pad+side/2, s.YIndex)

	fmt.Fprintf(&sb, "<g fill=\"%s\" fill-opacity=\"0.6\">\n", color)
	for _, p := range s.Points {
		cx := pad + p.X*side
		cy := pad + (1-p.Y)*side
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", cx, cy, radius)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG writes svg to w.
func WriteSVG(w io.Writer, svg string) error {
	if svg == "" {
		return fmt.Errorf("empty svg document")
	}
	_, err := io.WriteString(w, svg)
	return err
}

// WriteSVGFile writes svg to path, replacing any existing file.
func WriteSVGFile(path, svg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, svg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

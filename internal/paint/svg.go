package paint

import (
	"bytes"
	"fmt"
	"html"

	"github.com/thiagokokada/loggraph/internal/layout"
)

// SVG is a Surface writing SVG elements into a buffer, offset by a row top.
type SVG struct {
	buf *bytes.Buffer
	top float64
}

// NewSVG returns a surface writing into buf.
func NewSVG(buf *bytes.Buffer) *SVG { return &SVG{buf: buf} }

// SetTop moves the origin to the top of the next row.
func (s *SVG) SetTop(y float64) { s.top = y }

func (s *SVG) Line(from, to Point, stroke Stroke) {
	dash := ""
	if stroke.Dashed {
		dash = fmt.Sprintf(` stroke-dasharray="%.1f %.1f"`, stroke.Width*2, stroke.Width*2)
	}
	fmt.Fprintf(s.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"%s/>`+"\n",
		from.X, from.Y+s.top, to.X, to.Y+s.top, stroke.Color, stroke.Width, dash)
}

func (s *SVG) Circle(center Point, radius float64, fill string) {
	fmt.Fprintf(s.buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		center.X, center.Y+s.top, radius, fill)
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	selection  layout.Selection
	labels     func(row int) string
	labelWidth float64
	background string
}

// WithSelection draws the given nodes and edges as selected.
func WithSelection(sel layout.Selection) SVGOption {
	return func(r *svgRenderer) { r.selection = sel }
}

// WithLabels writes text next to each row, in a column of the given width.
func WithLabels(width float64, label func(row int) string) SVGOption {
	return func(r *svgRenderer) {
		r.labels = label
		r.labelWidth = width
	}
}

// WithBackground fills the canvas with a color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG paints every row of l.
func RenderSVG(l *layout.Layout, p *Painter, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	h := p.RowHeight
	graphWidth := ElementWidth(h) * float64(max(1, l.MaxWidth()))
	width := graphWidth + r.labelWidth
	height := h * float64(l.RowCount())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	s := NewSVG(&buf)
	for row := range l.RowCount() {
		top := h * float64(row)
		s.SetTop(top)
		p.Paint(s, l.Row(row, r.selection))
		if r.labels == nil {
			continue
		}
		if text := r.labels(row); text != "" {
			fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="monospace" font-size="%.1f" dominant-baseline="middle">%s</text>`+"\n",
				graphWidth+ElementWidth(h)/2, top+h/2, h*0.6, html.EscapeString(text))
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

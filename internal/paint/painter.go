package paint

import (
	"hash/fnv"

	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/layout"
)

// Stroke describes how a line is drawn.
type Stroke struct {
	Color  string
	Width  float64
	Dashed bool
}

// Surface receives primitives in row-local coordinates.
type Surface interface {
	Line(from, to Point, stroke Stroke)
	Circle(center Point, radius float64, fill string)
}

// DefaultPalette matches the lane colors of the log view.
var DefaultPalette = []string{"#00cc00", "#cc0000", "#0055cc", "#aa00aa", "#555555", "#8b4513", "#ff8c00"}

// DarkPalette is DefaultPalette for dark backgrounds.
var DarkPalette = []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"}

// Painter draws rows of a fixed height.
type Painter struct {
	RowHeight      float64
	Palette        []string
	SelectionColor string
}

// NewPainter returns a painter with the default palette.
func NewPainter(rowHeight float64) *Painter {
	return &Painter{RowHeight: rowHeight, Palette: DefaultPalette, SelectionColor: "#ffffff"}
}

// ColorFor returns the palette color of a branch label.
func (p *Painter) ColorFor(branch string) string {
	palette := p.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(branch))
	return palette[h.Sum32()%uint32(len(palette))]
}

// edgeSegments returns the main stroke of an edge element followed by the
// arrow tip strokes, if any.
func (p *Painter) edgeSegments(e layout.EdgePrintElement) (segment, []segment) {
	h := p.RowHeight
	x1 := columnX(e.Position, h)
	x2 := columnX(e.OtherPosition, h)
	start := Point{X: x1, Y: h / 2}
	if e.HasArrow {
		end := Point{X: x1 + (x2-x1)/4, Y: h * 3 / 4}
		if e.Direction == layout.Up {
			end.Y = h / 4
		}
		main := segment{from: start, to: end}
		tip := arrowHead(main, ArrowSize(h))
		return main, tip[:]
	}
	end := Point{X: (x1 + x2) / 2, Y: h}
	if e.Direction == layout.Up {
		end.Y = 0
	}
	return segment{from: start, to: end}, nil
}

func (p *Painter) nodeCenter(n layout.NodePrintElement) Point {
	return Point{X: columnX(n.Position, p.RowHeight), Y: p.RowHeight / 2}
}

func (p *Painter) edgeColor(e *graph.Edge) string { return p.ColorFor(e.Branch) }
func (p *Painter) nodeColor(n *graph.Node) string { return p.ColorFor(n.Branch) }

// Paint draws the elements of one row. Selected elements are drawn on top of
// the others: first an outline in the selection color, then their fill.
func (p *Painter) Paint(s Surface, elements []layout.Element) {
	h := p.RowHeight
	var selected []layout.Element
	for _, el := range elements {
		if el.IsSelected() {
			selected = append(selected, el)
			continue
		}
		p.draw(s, el, LineThickness(h), CircleRadius(h), "")
	}
	outline := p.SelectionColor
	for _, el := range selected {
		p.draw(s, el, SelectedLineThickness(h)+2*LineThickness(h), SelectedCircleRadius(h)+LineThickness(h), outline)
	}
	for _, el := range selected {
		p.draw(s, el, SelectedLineThickness(h), SelectedCircleRadius(h), "")
	}
}

func (p *Painter) draw(s Surface, el layout.Element, width, radius float64, color string) {
	switch el := el.(type) {
	case layout.NodePrintElement:
		c := color
		if c == "" {
			c = p.nodeColor(el.Node)
		}
		s.Circle(p.nodeCenter(el), radius, c)
	case layout.EdgePrintElement:
		c := color
		if c == "" {
			c = p.edgeColor(el.Edge)
		}
		stroke := Stroke{Color: c, Width: width, Dashed: el.Style == layout.Dashed}
		main, tip := p.edgeSegments(el)
		s.Line(main.from, main.to, stroke)
		stroke.Dashed = false
		for _, t := range tip {
			s.Line(t.from, t.to, stroke)
		}
	}
}

// ElementUnderCursor returns the element at (x, y) in row-local coordinates,
// or nil. Nodes win over edges.
func (p *Painter) ElementUnderCursor(elements []layout.Element, x, y float64) layout.Element {
	h := p.RowHeight
	pt := Point{X: x, Y: y}
	for _, el := range elements {
		if n, ok := el.(layout.NodePrintElement); ok && pt.dist(p.nodeCenter(n)) <= CircleRadius(h) {
			return n
		}
	}
	for _, el := range elements {
		e, ok := el.(layout.EdgePrintElement)
		if !ok {
			continue
		}
		main, _ := p.edgeSegments(e)
		if pt.dist(main.from)+pt.dist(main.to) < main.from.dist(main.to)+LineThickness(h) {
			return e
		}
	}
	return nil
}

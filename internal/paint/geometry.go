// Package paint turns print elements into drawing primitives and answers
// which element lies under a point.
//
// Every size is defined for a row of RowHeightBaseline pixels and scales
// linearly with the actual row height.
package paint

import "math"

// RowHeightBaseline is the row height the size constants are defined for.
const RowHeightBaseline = 22.0

const (
	elementWidth          = 15.0
	lineThickness         = 1.5
	selectedLineThickness = 2.5
	circleRadius          = 4.0
	selectedCircleRadius  = 5.0
	arrowSize             = 4.0
)

// Scale converts a baseline size to a row of height h.
func Scale(v, h float64) float64 { return v * h / RowHeightBaseline }

// ElementWidth is the horizontal distance between two columns.
func ElementWidth(h float64) float64 { return Scale(elementWidth, h) }

// LineThickness is the stroke width of an edge.
func LineThickness(h float64) float64 { return Scale(lineThickness, h) }

// SelectedLineThickness is the stroke width of a selected edge.
func SelectedLineThickness(h float64) float64 { return Scale(selectedLineThickness, h) }

// CircleRadius is the radius of a node circle.
func CircleRadius(h float64) float64 { return Scale(circleRadius, h) }

// SelectedCircleRadius is the radius of a selected node circle.
func SelectedCircleRadius(h float64) float64 { return Scale(selectedCircleRadius, h) }

// ArrowSize is the length of the arrow head drawn on a cut long edge.
func ArrowSize(h float64) float64 { return Scale(arrowSize, h) }

// Point is a position relative to the top-left corner of a row.
type Point struct {
	X, Y float64
}

func (p Point) dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// columnX returns the x coordinate of the center of column pos.
func columnX(pos int, h float64) float64 {
	w := ElementWidth(h)
	return w*float64(pos) + w/2
}

// segment is a straight stroke between two points.
type segment struct {
	from, to Point
}

// arrowHead returns the two strokes of an arrow tip at s.to.
func arrowHead(s segment, size float64) [2]segment {
	dx, dy := s.to.X-s.from.X, s.to.Y-s.from.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return [2]segment{{s.to, s.to}, {s.to, s.to}}
	}
	dx, dy = dx/l, dy/l
	const spread = math.Pi / 6
	var out [2]segment
	for i, a := range []float64{spread, -spread} {
		sin, cos := math.Sincos(a)
		bx := -(dx*cos - dy*sin)
		by := -(dx*sin + dy*cos)
		out[i] = segment{from: s.to, to: Point{X: s.to.X + bx*size, Y: s.to.Y + by*size}}
	}
	return out
}

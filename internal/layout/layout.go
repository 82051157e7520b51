// Package layout assigns columns to the visible graph and produces the print
// elements painted for each row.
package layout

import (
	"slices"

	"github.com/thiagokokada/loggraph/internal/graph"
)

// Direction says which neighbouring row an edge element points to.
type Direction uint8

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Style is the stroke of an edge element.
type Style uint8

const (
	Solid Style = iota
	Dashed
)

// Element is a NodePrintElement or an EdgePrintElement.
type Element interface {
	RowIndex() int
	Column() int
	IsSelected() bool
}

// NodePrintElement is the circle of a node occurrence.
type NodePrintElement struct {
	Row      int
	Position int
	Node     *graph.Node
	Selected bool
}

func (e NodePrintElement) RowIndex() int    { return e.Row }
func (e NodePrintElement) Column() int      { return e.Position }
func (e NodePrintElement) IsSelected() bool { return e.Selected }

// EdgePrintElement is the half of an edge that lies in one row, running from
// Position in this row towards OtherPosition in the row above (Up) or below
// (Down).
type EdgePrintElement struct {
	Row           int
	Position      int
	OtherPosition int
	Direction     Direction
	Style         Style
	HasArrow      bool
	Edge          *graph.Edge
	Selected      bool
}

func (e EdgePrintElement) RowIndex() int    { return e.Row }
func (e EdgePrintElement) Column() int      { return e.Position }
func (e EdgePrintElement) IsSelected() bool { return e.Selected }

// Options configures Compute.
type Options struct {
	// LongEdgeSize cuts edges spanning at least this many rows: they are only
	// drawn as arrows next to their endpoints. Zero disables cutting.
	LongEdgeSize int
}

// Selection marks nodes and edges to draw as selected. Nil maps select
// nothing.
type Selection struct {
	Nodes map[*graph.Node]bool
	Edges map[*graph.Edge]bool
}

type cell struct {
	node *graph.Node
	edge *graph.Edge
}

// Layout holds the columns of one graph generation.
type Layout struct {
	generation uint64
	opts       Options
	rows       [][]cell
	nodePos    map[*graph.Node]int
	edgePos    []map[*graph.Edge]int // passing edges per row
}

// Compute assigns columns to every visible node occurrence and every edge
// passing a row.
func Compute(g *graph.Graph, opts Options) *Layout {
	rows := g.Rows()
	l := &Layout{
		generation: g.Generation(),
		opts:       opts,
		rows:       make([][]cell, len(rows)),
		nodePos:    make(map[*graph.Node]int),
		edgePos:    make([]map[*graph.Edge]int, len(rows)),
	}
	var prev []cell
	for i, r := range rows {
		nodes := r.Nodes()
		var expanded []*graph.Edge
		for _, c := range prev {
			if c.node != nil {
				expanded = append(expanded, downEdges(c.node)...)
				continue
			}
			expanded = append(expanded, c.edge)
		}

		cur := make([]cell, 0, len(expanded)+len(nodes))
		passing := make(map[*graph.Edge]int)
		placed := make(map[*graph.Node]bool, len(nodes))
		for _, e := range expanded {
			if slices.Contains(nodes, e.Down) {
				if !placed[e.Down] {
					placed[e.Down] = true
					l.nodePos[e.Down] = len(cur)
					cur = append(cur, cell{node: e.Down})
				}
				continue
			}
			passing[e] = len(cur)
			cur = append(cur, cell{edge: e})
		}
		for _, n := range nodes {
			if placed[n] {
				continue
			}
			if j := joinedTo(n); j != nil {
				// Drawn inside the commit it joins; its lines leave from there.
				l.nodePos[n] = l.nodePos[j]
				continue
			}
			l.nodePos[n] = len(cur)
			cur = append(cur, cell{node: n})
		}
		l.rows[i] = cur
		l.edgePos[i] = passing
		prev = cur
	}
	return l
}

// Generation returns the graph generation the layout was computed for.
func (l *Layout) Generation() uint64 { return l.generation }

// RowCount returns the number of rows.
func (l *Layout) RowCount() int { return len(l.rows) }

// Width returns the number of columns used by row r.
func (l *Layout) Width(r int) int {
	if r < 0 || r >= len(l.rows) {
		return 0
	}
	return len(l.rows[r])
}

// MaxWidth returns the widest row's column count.
func (l *Layout) MaxWidth() int {
	w := 0
	for _, r := range l.rows {
		w = max(w, len(r))
	}
	return w
}

// NodePosition returns the column of a visible node occurrence.
func (l *Layout) NodePosition(n *graph.Node) (int, bool) {
	pos, ok := l.nodePos[n]
	return pos, ok
}

// position returns the column where e is drawn in row r, or -1.
func (l *Layout) position(r int, e *graph.Edge) int {
	if r < 0 || r >= len(l.rows) {
		return -1
	}
	if e.Up.Row() == r {
		return l.nodePos[e.Up]
	}
	if e.Down.Row() == r {
		return l.nodePos[e.Down]
	}
	if pos, ok := l.edgePos[r][e]; ok {
		return pos
	}
	return -1
}

// joins reports whether e stays within one row.
func joins(e *graph.Edge) bool { return e.Up.Row() == e.Down.Row() }

// joinedTo returns the commit n is joined to within its row, or nil.
func joinedTo(n *graph.Node) *graph.Node {
	up := n.Up()
	if n.Kind != graph.EdgeNode || len(up) != 1 || !joins(up[0]) {
		return nil
	}
	return up[0].Up
}

// downEdges returns the edges leaving n's row from n, following joins.
func downEdges(n *graph.Node) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range n.Down() {
		if joins(e) {
			out = append(out, e.Down.Down()...)
			continue
		}
		out = append(out, e)
	}
	return out
}

func (l *Layout) long(e *graph.Edge) bool {
	return l.opts.LongEdgeSize > 0 && e.Down.Row()-e.Up.Row() >= l.opts.LongEdgeSize
}

// Row returns the print elements of row r: up edges first, then down edges,
// then nodes. An EDGE_NODE joined to a commit of the same row is drawn as
// that commit.
func (l *Layout) Row(r int, sel Selection) []Element {
	if r < 0 || r >= len(l.rows) {
		return nil
	}
	var edges []*graph.Edge
	var nodes []NodePrintElement
	for pos, c := range l.rows[r] {
		if c.node == nil {
			edges = append(edges, c.edge)
			continue
		}
		nodes = append(nodes, NodePrintElement{Row: r, Position: pos, Node: c.node, Selected: sel.Nodes[c.node]})
		edges = append(edges, c.node.Up()...)
		edges = append(edges, downEdges(c.node)...)
	}

	var ups, downs []Element
	for _, e := range edges {
		long := l.long(e)
		pos := l.position(r, e)
		style := Solid
		if e.Kind == graph.HideFragment {
			style = Dashed
		}
		if e.Up.Row() != r && (!long || e.Down.Row() == r) {
			if other := l.position(r-1, e); other >= 0 {
				ups = append(ups, EdgePrintElement{
					Row: r, Position: pos, OtherPosition: other, Direction: Up,
					Style: style, HasArrow: long, Edge: e, Selected: sel.Edges[e],
				})
			}
		}
		if e.Down.Row() != r && (!long || e.Up.Row() == r) {
			if other := l.position(r+1, e); other >= 0 {
				downs = append(downs, EdgePrintElement{
					Row: r, Position: pos, OtherPosition: other, Direction: Down,
					Style: style, HasArrow: long, Edge: e, Selected: sel.Edges[e],
				})
			}
		}
	}

	out := make([]Element, 0, len(ups)+len(downs)+len(nodes))
	out = append(out, ups...)
	out = append(out, downs...)
	for _, n := range nodes {
		out = append(out, n)
	}
	return out
}


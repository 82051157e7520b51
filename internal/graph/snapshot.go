package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Snapshot renders the visible graph, one line per node occurrence:
//
//	hash|up-edges|down-edges|KIND|branch|row
//
// where edges are space separated "up:down:TYPE:branch" entries. The text
// only depends on visible state and is used for round-trip comparisons.
func (g *Graph) Snapshot() string {
	if g.snapValid {
		return g.snapshot
	}
	var b strings.Builder
	for i, r := range g.rows {
		for j, n := range r.nodes {
			if i > 0 || j > 0 {
				b.WriteByte('\n')
			}
			writeNodeLine(&b, n)
		}
	}
	g.snapshot = b.String()
	g.snapValid = true
	return g.snapshot
}

func writeNodeLine(b *strings.Builder, n *Node) {
	b.WriteString(n.Hash)
	b.WriteByte('|')
	writeEdges(b, n.up)
	b.WriteByte('|')
	writeEdges(b, n.down)
	b.WriteByte('|')
	b.WriteString(n.Kind.String())
	b.WriteByte('|')
	b.WriteString(n.Branch)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(n.row))
}

func writeEdges(b *strings.Builder, edges []*Edge) {
	for i, e := range edges {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
}

func (e *Edge) String() string {
	return e.Up.Hash + ":" + e.Down.Hash + ":" + e.Kind.String() + ":" + e.Branch
}

// Validate checks the structural invariants of the visible graph: dense
// rows in canonical order, edges pointing downwards between visible nodes and
// mirrored on both endpoints.
func (g *Graph) Validate() error {
	prev := -1
	for i, r := range g.rows {
		if len(r.nodes) == 0 {
			return fmt.Errorf("row %d is empty: %w", i, ErrInvariant)
		}
		if r.seq <= prev {
			return fmt.Errorf("row %d out of order: %w", i, ErrInvariant)
		}
		prev = r.seq
		for _, n := range r.nodes {
			if n.row != i {
				return fmt.Errorf("node %s has row %d on row %d: %w", n.Hash, n.row, i, ErrInvariant)
			}
			for _, e := range n.down {
				if err := g.validateEdge(e, n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Graph) validateEdge(e *Edge, up *Node) error {
	if e.Up != up {
		return fmt.Errorf("edge %s listed on %s: %w", e, up.Hash, ErrInvariant)
	}
	if !g.IsVisible(e.Down) {
		return fmt.Errorf("edge %s ends on a hidden node: %w", e, ErrInvariant)
	}
	// A child joins its own EDGE_NODE within its row.
	if e.Down.row < e.Up.row || (e.Down.row == e.Up.row && e.Down.Kind != EdgeNode) {
		return fmt.Errorf("edge %s does not point down: %w", e, ErrInvariant)
	}
	if !slices.Contains(e.Down.up, e) {
		return fmt.Errorf("edge %s missing on %s: %w", e, e.Down.Hash, ErrInvariant)
	}
	return nil
}

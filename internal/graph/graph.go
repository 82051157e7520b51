// Package graph holds the row-indexed commit DAG used by the log view.
//
// A Graph keeps one stable node per loaded commit (the arena) and a slice of
// visible rows. Each row carries the occurrence of one commit followed by the
// EDGE_NODE occurrences that were placed in it. Fragment collapsing and branch
// filtering both rewrite the visible rows through ReplaceVisibleRows, which
// keeps row indices dense and ordered by the canonical input order.
//
// Graph is not safe for concurrent use; see package session for a locked
// wrapper.
package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidCommit is returned by Build for a commit without a hash.
	ErrInvalidCommit = errors.New("commit hash must not be empty")
	// ErrDuplicateCommit is returned by Build when a hash is listed twice.
	ErrDuplicateCommit = errors.New("duplicate commit")
	// ErrParentOrder is returned by Build when a parent is listed before one
	// of its children.
	ErrParentOrder = errors.New("parent listed before child")
	// ErrNodeNotFound reports a node or fragment that is not part of the
	// current visible graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrRowRange is returned by ReplaceVisibleRows for an invalid range.
	ErrRowRange = errors.New("row range out of bounds")
	// ErrRowOrder is returned by ReplaceVisibleRows when the result would not
	// follow the canonical commit order.
	ErrRowOrder = errors.New("rows out of canonical order")
	// ErrInvariant is returned by Validate.
	ErrInvariant = errors.New("graph invariant violated")
)

// Commit is one entry of the input history: a hash and its ordered parents.
type Commit struct {
	Hash    string
	Parents []string
}

// Graph is the mutable row-indexed DAG.
type Graph struct {
	commits []Commit
	index   map[string]int // hash -> canonical position
	nodes   []*Node        // arena, canonical order

	rows    []*Row
	visible map[string]*Node // hash -> visible commit occurrence

	gen       uint64
	epoch     uint64 // bumped when rows are rebuilt from the arena
	snapshot  string
	snapValid bool
}

// Row is one visible line of the graph.
type Row struct {
	seq   int
	nodes []*Node
}

// Seq returns the canonical position of the row's commit.
func (r *Row) Seq() int { return r.seq }

// Commit returns the commit occurrence shown on the row.
func (r *Row) Commit() *Node { return r.nodes[0] }

// Nodes returns every node occurrence of the row, commit occurrence first.
func (r *Row) Nodes() []*Node { return slices.Clone(r.nodes) }

// Index returns the current row index.
func (r *Row) Index() int { return r.nodes[0].row }

func (r *Row) contains(n *Node) bool {
	return slices.Contains(r.nodes, n)
}

// Generation increases on every mutation. Callers caching derived data use it
// to detect staleness.
func (g *Graph) Generation() uint64 { return g.gen }

// RowCount returns the number of visible rows.
func (g *Graph) RowCount() int { return len(g.rows) }

// Rows returns the visible rows in order.
func (g *Graph) Rows() []*Row { return slices.Clone(g.rows) }

// RowAt returns the visible row at index.
func (g *Graph) RowAt(index int) (*Row, error) {
	if index < 0 || index >= len(g.rows) {
		return nil, fmt.Errorf("row %d: %w", index, ErrNodeNotFound)
	}
	return g.rows[index], nil
}

// NodeAt returns the commit occurrence shown on the visible row at index.
func (g *Graph) NodeAt(index int) (*Node, error) {
	row, err := g.RowAt(index)
	if err != nil {
		return nil, err
	}
	return row.Commit(), nil
}

// Node returns the visible commit occurrence of hash.
func (g *Graph) Node(hash string) (*Node, error) {
	n, ok := g.visible[hash]
	if !ok {
		return nil, fmt.Errorf("commit %s: %w", hash, ErrNodeNotFound)
	}
	return n, nil
}

// Commit returns the arena node of hash whether it is visible or not.
func (g *Graph) Commit(hash string) (*Node, bool) {
	pos, ok := g.index[hash]
	if !ok {
		return nil, false
	}
	return g.nodes[pos], true
}

// Commits returns the canonical input.
func (g *Graph) Commits() []Commit { return slices.Clone(g.commits) }

// IsVisible reports whether n is placed on a visible row.
func (g *Graph) IsVisible(n *Node) bool {
	if n == nil || n.row < 0 || n.row >= len(g.rows) {
		return false
	}
	return g.rows[n.row].contains(n)
}

// ReplaceVisibleRows removes the visible rows [from, to) and splices rows in
// their place, then renumbers every row. The result must keep rows ordered by
// their canonical position.
func (g *Graph) ReplaceVisibleRows(from, to int, rows []*Row) error {
	if from < 0 || to < from || to > len(g.rows) {
		return fmt.Errorf("replace [%d,%d) of %d: %w", from, to, len(g.rows), ErrRowRange)
	}
	prev := -1
	if from > 0 {
		prev = g.rows[from-1].seq
	}
	for _, r := range rows {
		if r == nil || len(r.nodes) == 0 || r.seq <= prev {
			return fmt.Errorf("replace [%d,%d): %w", from, to, ErrRowOrder)
		}
		prev = r.seq
	}
	if to < len(g.rows) && g.rows[to].seq <= prev {
		return fmt.Errorf("replace [%d,%d): %w", from, to, ErrRowOrder)
	}

	for _, r := range g.rows[from:to] {
		for _, n := range r.nodes {
			n.row = -1
		}
	}
	tail := slices.Clone(g.rows[to:])
	g.rows = append(append(g.rows[:from], rows...), tail...)
	g.renumber()
	return nil
}

func (g *Graph) renumber() {
	g.visible = make(map[string]*Node, len(g.rows))
	for i, r := range g.rows {
		for _, n := range r.nodes {
			n.row = i
		}
		g.visible[r.Commit().Hash] = r.Commit()
	}
	g.gen++
	g.snapValid = false
}

package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrFragmentHidden is returned by Hide for a fragment that is already
	// collapsed.
	ErrFragmentHidden = errors.New("fragment already hidden")
	// ErrFragmentVisible is returned by Show for a fragment that is not
	// collapsed.
	ErrFragmentVisible = errors.New("fragment not hidden")
	// ErrStaleFragment is returned by Hide and Show when the rows were
	// rebuilt since the fragment was related. It matches ErrNodeNotFound.
	ErrStaleFragment = fmt.Errorf("stale fragment: %w", ErrNodeNotFound)
)

// Fragment is a maximal run of single-parent/single-child commits between two
// structurally significant nodes.
type Fragment struct {
	Up           *Node
	Down         *Node
	Intermediate []*Node // strictly between Up and Down, top-down

	epoch  uint64
	hidden *hiddenFragment
}

type hiddenFragment struct {
	edge *Edge // the HIDE_FRAGMENT edge
	top  *Edge // Up -> Intermediate[0]
	end  *Edge // Intermediate[last] -> Down
	rows []*Row
}

// Visible reports whether the fragment is expanded.
func (f *Fragment) Visible() bool { return f.hidden == nil }

// Nodes returns Up, the intermediate nodes and Down, top-down.
func (f *Fragment) Nodes() []*Node {
	out := make([]*Node, 0, len(f.Intermediate)+2)
	out = append(out, f.Up)
	out = append(out, f.Intermediate...)
	return append(out, f.Down)
}

// HideEdge returns the synthetic edge standing in for the fragment while it
// is hidden, or nil.
func (f *Fragment) HideEdge() *Edge {
	if f.hidden == nil {
		return nil
	}
	return f.hidden.edge
}

// passable reports whether n can sit inside a fragment: a commit occurrence
// alone on its row with exactly one usual edge on each side.
func (g *Graph) passable(n *Node) bool {
	if n.Kind != CommitNode || len(n.up) != 1 || len(n.down) != 1 {
		return false
	}
	if n.up[0].Kind != Usual || n.down[0].Kind != Usual {
		return false
	}
	return len(g.rows[n.row].nodes) == 1
}

// RelateFragment returns the maximal fragment containing n, or nil when n has
// nothing to collapse around it.
func (g *Graph) RelateFragment(n *Node) (*Fragment, error) {
	if !g.IsVisible(n) {
		hash := "<nil>"
		if n != nil {
			hash = n.Hash
		}
		return nil, fmt.Errorf("relate fragment %s: %w", hash, ErrNodeNotFound)
	}

	var up, down *Node
	switch {
	case g.passable(n):
		up, down = n, n
	case len(n.down) == 1 && n.down[0].Kind == Usual && g.passable(n.down[0].Down):
		up, down = n, n.down[0].Down
	case len(n.up) == 1 && n.up[0].Kind == Usual && g.passable(n.up[0].Up):
		up, down = n.up[0].Up, n
	default:
		return nil, nil
	}

	var chain []*Node
	for g.passable(up) {
		chain = append(chain, up)
		up = up.up[0].Up
	}
	slices.Reverse(chain)
	if down == n && g.passable(n) {
		down = n.down[0].Down
	}
	for g.passable(down) {
		if !slices.Contains(chain, down) {
			chain = append(chain, down)
		}
		down = down.down[0].Down
	}
	return &Fragment{Up: up, Down: down, Intermediate: chain, epoch: g.epoch}, nil
}

// Hide collapses f into a single HIDE_FRAGMENT edge between f.Up and f.Down.
func (g *Graph) Hide(f *Fragment) error {
	if f == nil || len(f.Intermediate) == 0 {
		return fmt.Errorf("hide: %w", ErrNodeNotFound)
	}
	if !f.Visible() {
		return ErrFragmentHidden
	}
	if f.epoch != g.epoch {
		return fmt.Errorf("hide %s..%s: %w", f.Up.Hash, f.Down.Hash, ErrStaleFragment)
	}
	for _, n := range f.Nodes() {
		if !g.IsVisible(n) {
			return fmt.Errorf("hide %s: %w", n.Hash, ErrNodeNotFound)
		}
	}
	for _, n := range f.Intermediate {
		if !g.passable(n) {
			return fmt.Errorf("hide %s..%s through %s: %w", f.Up.Hash, f.Down.Hash, n.Hash, ErrStaleFragment)
		}
	}
	first, last := f.Intermediate[0], f.Intermediate[len(f.Intermediate)-1]
	top, end := first.up[0], last.down[0]
	topSlot := slices.Index(f.Up.down, top)
	endSlot := slices.Index(f.Down.up, end)
	if topSlot < 0 || endSlot < 0 {
		return fmt.Errorf("hide %s..%s: %w", f.Up.Hash, f.Down.Hash, ErrNodeNotFound)
	}

	from, to := first.row, last.row+1
	var kept, removed []*Row
	for _, r := range g.rows[from:to] {
		if slices.Contains(f.Intermediate, r.Commit()) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}

	edge := &Edge{Up: f.Up, Down: f.Down, Kind: HideFragment, Branch: f.Up.Branch}
	f.Up.down[topSlot] = edge
	f.Down.up[endSlot] = edge
	if err := g.ReplaceVisibleRows(from, to, kept); err != nil {
		f.Up.down[topSlot] = top
		f.Down.up[endSlot] = end
		return err
	}
	f.hidden = &hiddenFragment{edge: edge, top: top, end: end, rows: removed}
	return nil
}

// Show expands a fragment hidden by Hide, restoring the exact previous state.
func (g *Graph) Show(f *Fragment) error {
	if f == nil {
		return fmt.Errorf("show: %w", ErrNodeNotFound)
	}
	if f.Visible() {
		return ErrFragmentVisible
	}
	h := f.hidden
	if f.epoch != g.epoch || !g.IsVisible(f.Up) || !g.IsVisible(f.Down) {
		return ErrStaleFragment
	}
	topSlot := slices.Index(f.Up.down, h.edge)
	endSlot := slices.Index(f.Down.up, h.edge)
	if topSlot < 0 || endSlot < 0 {
		return ErrStaleFragment
	}

	from, to := f.Up.row+1, f.Down.row
	merged := make([]*Row, 0, to-from+len(h.rows))
	current := g.rows[from:to]
	i, j := 0, 0
	for i < len(current) || j < len(h.rows) {
		if j == len(h.rows) || (i < len(current) && current[i].seq < h.rows[j].seq) {
			merged = append(merged, current[i])
			i++
			continue
		}
		merged = append(merged, h.rows[j])
		j++
	}

	f.Up.down[topSlot] = h.top
	f.Down.up[endSlot] = h.end
	if err := g.ReplaceVisibleRows(from, to, merged); err != nil {
		f.Up.down[topSlot] = h.edge
		f.Down.up[endSlot] = h.edge
		return err
	}
	f.hidden = nil
	return nil
}

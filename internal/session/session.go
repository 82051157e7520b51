// Package session wraps a graph for concurrent use by a viewer: one writer
// toggles fragments or filters branches while painters read print elements.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/layout"
)

const defaultRowCacheSize = 1024

// ErrNoFragment is returned by ToggleAt when nothing around the element can
// be collapsed.
var ErrNoFragment = errors.New("no fragment to collapse")

// Options configures a Session.
type Options struct {
	LongEdgeSize int
	RowCacheSize int
	Logger       *slog.Logger
}

type rowKey struct {
	generation uint64
	selection  uint64
	row        int
}

// Session owns a graph, its layout and the fragments hidden through it.
type Session struct {
	mu       sync.RWMutex
	g        *graph.Graph
	opts     Options
	layout   *layout.Layout
	hidden   map[*graph.Edge]*graph.Fragment
	sel      layout.Selection
	selGen   uint64
	rows     *lru.Cache[rowKey, []layout.Element]
	logger   *slog.Logger
	heads    []string
	filtered bool
}

// New builds the graph of commits.
func New(commits []graph.Commit, opts Options) (*Session, error) {
	g, err := graph.Build(commits)
	if err != nil {
		return nil, err
	}
	size := opts.RowCacheSize
	if size <= 0 {
		size = defaultRowCacheSize
	}
	cache, err := lru.New[rowKey, []layout.Element](size)
	if err != nil {
		return nil, fmt.Errorf("row cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		g:      g,
		opts:   opts,
		hidden: make(map[*graph.Edge]*graph.Fragment),
		rows:   cache,
		logger: logger,
	}
	s.refresh()
	logger.Debug("Session created", slog.Int("commits", len(commits)), slog.Int("rows", g.RowCount()))
	return s, nil
}

// refresh recomputes derived state after a mutation. Must hold the write
// lock. The snapshot is rendered here so readers never fill the cache.
func (s *Session) refresh() {
	s.layout = layout.Compute(s.g, layout.Options{LongEdgeSize: s.opts.LongEdgeSize})
	_ = s.g.Snapshot()
}

// Snapshot returns the text rendering of the visible graph.
func (s *Session) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Snapshot()
}

// RowCount returns the number of visible rows.
func (s *Session) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.RowCount()
}

// Generation returns the graph generation, bumped on every change.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Generation()
}

// NodeAt returns the commit occurrence shown on row.
func (s *Session) NodeAt(row int) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.NodeAt(row)
}

// View runs fn with a consistent view of the graph and its layout. fn must
// not mutate the graph or keep references past its return.
func (s *Session) View(fn func(g *graph.Graph, l *layout.Layout)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.g, s.layout)
}

// PrintElements returns the elements painted on row, or nil when out of range.
func (s *Session) PrintElements(row int) []layout.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.printElements(row)
}

func (s *Session) printElements(row int) []layout.Element {
	key := rowKey{generation: s.g.Generation(), selection: s.selGen, row: row}
	if cached, ok := s.rows.Get(key); ok {
		return cached
	}
	elems := s.layout.Row(row, s.sel)
	if elems != nil {
		s.rows.Add(key, elems)
	}
	return elems
}

// RelateFragment returns the fragment around the commit shown on row.
func (s *Session) RelateFragment(row int) (*graph.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.g.NodeAt(row)
	if err != nil {
		return nil, err
	}
	return s.g.RelateFragment(n)
}

// FragmentOf returns the fragment around the visible commit hash.
func (s *Session) FragmentOf(hash string) (*graph.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.g.Node(hash)
	if err != nil {
		return nil, err
	}
	return s.g.RelateFragment(n)
}

// Hide collapses f.
func (s *Session) Hide(f *graph.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hide(f)
}

func (s *Session) hide(f *graph.Fragment) error {
	if err := s.g.Hide(f); err != nil {
		return err
	}
	s.hidden[f.HideEdge()] = f
	s.refresh()
	s.logger.Debug("Fragment hidden",
		slog.String("up", f.Up.Hash),
		slog.String("down", f.Down.Hash),
		slog.Int("commits", len(f.Intermediate)),
	)
	return nil
}

// Show expands f.
func (s *Session) Show(f *graph.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.show(f)
}

func (s *Session) show(f *graph.Fragment) error {
	edge := f.HideEdge()
	if err := s.g.Show(f); err != nil {
		return err
	}
	delete(s.hidden, edge)
	s.refresh()
	s.logger.Debug("Fragment shown", slog.String("up", f.Up.Hash), slog.String("down", f.Down.Hash))
	return nil
}

// ShowAllFragments expands every fragment hidden through the session.
func (s *Session) ShowAllFragments() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.hidden) > 0 {
		progress := false
		for _, f := range s.hidden {
			if err := s.show(f); err != nil {
				continue
			}
			progress = true
		}
		if !progress {
			return fmt.Errorf("%d fragments cannot be shown: %w", len(s.hidden), graph.ErrStaleFragment)
		}
	}
	return nil
}

// HiddenCount returns the number of collapsed fragments.
func (s *Session) HiddenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hidden)
}

// ToggleAt collapses the fragment around a node or edge element, or expands
// the fragment behind a collapsed edge.
func (s *Session) ToggleAt(el layout.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fragmentAt(el)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNoFragment
	}
	if f.Visible() {
		return s.hide(f)
	}
	return s.show(f)
}

// FragmentAt returns the fragment ToggleAt would act on, or nil.
func (s *Session) FragmentAt(el layout.Element) (*graph.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fragmentAt(el)
}

func (s *Session) fragmentAt(el layout.Element) (*graph.Fragment, error) {
	var candidates []*graph.Node
	switch el := el.(type) {
	case layout.NodePrintElement:
		candidates = []*graph.Node{el.Node}
	case layout.EdgePrintElement:
		if el.Edge.Kind == graph.HideFragment {
			f, ok := s.hidden[el.Edge]
			if !ok {
				return nil, fmt.Errorf("collapsed edge %s: %w", el.Edge, graph.ErrStaleFragment)
			}
			return f, nil
		}
		candidates = []*graph.Node{el.Edge.Down, el.Edge.Up}
	default:
		return nil, nil
	}
	for _, n := range candidates {
		f, err := s.g.RelateFragment(n)
		if err != nil || f != nil {
			return f, err
		}
	}
	return nil, nil
}

// Select highlights the nodes and edges of f. Nil clears the selection.
func (s *Session) Select(f *graph.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selGen++
	s.sel = layout.Selection{}
	if f == nil {
		return
	}
	nodes := f.Nodes()
	s.sel.Nodes = make(map[*graph.Node]bool, len(nodes))
	s.sel.Edges = make(map[*graph.Edge]bool, len(nodes))
	for _, n := range nodes {
		s.sel.Nodes[n] = true
	}
	if e := f.HideEdge(); e != nil {
		s.sel.Edges[e] = true
		return
	}
	for i, n := range nodes[:len(nodes)-1] {
		for _, e := range n.Down() {
			if e.Down == nodes[i+1] {
				s.sel.Edges[e] = true
			}
		}
	}
}

// SetVisibleBranches restricts the graph to the history of heads. Hidden
// fragments are dropped.
func (s *Session) SetVisibleBranches(heads []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.SetVisibleBranches(heads); err != nil {
		return err
	}
	s.heads = append([]string(nil), heads...)
	s.filtered = true
	s.afterFilter()
	return nil
}

// SetVisibleBranchesNodes is SetVisibleBranches with a predicate.
func (s *Session) SetVisibleBranchesNodes(isSelected func(*graph.Node) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.SetVisibleBranchesNodes(isSelected); err != nil {
		return err
	}
	s.heads = nil
	s.filtered = true
	s.afterFilter()
	return nil
}

// ShowAll removes the branch filter and every collapsed fragment.
func (s *Session) ShowAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.ShowAll(); err != nil {
		return err
	}
	s.heads = nil
	s.filtered = false
	s.afterFilter()
	return nil
}

// Filter returns the heads of the current branch filter and whether one is
// active.
func (s *Session) Filter() ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.heads...), s.filtered
}

func (s *Session) afterFilter() {
	dropped := len(s.hidden)
	clear(s.hidden)
	s.sel = layout.Selection{}
	s.selGen++
	s.refresh()
	s.logger.Debug("Visible branches changed",
		slog.Int("rows", s.g.RowCount()),
		slog.Int("dropped_fragments", dropped),
	)
}

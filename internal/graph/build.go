package graph

import (
	"container/heap"
	"fmt"
	"slices"
)

// Build constructs the graph from commits in display order: row 0 is the
// first commit. Every commit must be listed before its parents.
func Build(commits []Commit) (*Graph, error) {
	g := &Graph{
		commits: make([]Commit, 0, len(commits)),
		index:   make(map[string]int, len(commits)),
		nodes:   make([]*Node, 0, len(commits)),
	}
	for _, c := range commits {
		if c.Hash == "" {
			return nil, ErrInvalidCommit
		}
		if _, dup := g.index[c.Hash]; dup {
			return nil, fmt.Errorf("commit %s: %w", c.Hash, ErrDuplicateCommit)
		}
		g.index[c.Hash] = len(g.commits)
		g.commits = append(g.commits, Commit{Hash: c.Hash, Parents: uniqueParents(c.Parents)})
		g.nodes = append(g.nodes, &Node{Hash: c.Hash, row: -1})
	}
	for pos, c := range g.commits {
		for _, p := range c.Parents {
			if ppos, ok := g.index[p]; ok && ppos <= pos {
				return nil, fmt.Errorf("commit %s, parent %s: %w", c.Hash, p, ErrParentOrder)
			}
		}
	}
	g.rows = g.layout(func(int) bool { return true })
	g.renumber()
	return g, nil
}

func uniqueParents(parents []string) []string {
	out := make([]string, 0, len(parents))
	for _, p := range parents {
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// layout derives rows, edges, kinds and branch labels for the commits whose
// canonical position is accepted by visible. Arena nodes are reset and reused;
// EDGE_NODE occurrences are created fresh.
func (g *Graph) layout(visible func(pos int) bool) []*Row {
	for _, n := range g.nodes {
		n.row = -1
		n.up = nil
		n.down = nil
		n.Kind = CommitNode
		n.Branch = ""
	}

	// lastChild maps a parent's position to the position of its last
	// visible child.
	lastChild := make(map[int]int)
	for pos, c := range g.commits {
		if !visible(pos) {
			continue
		}
		for _, p := range c.Parents {
			if ppos, ok := g.index[p]; ok && visible(ppos) {
				lastChild[ppos] = pos
			}
		}
	}

	rows := make([]*Row, 0, len(g.nodes))
	for pos, c := range g.commits {
		if !visible(pos) {
			continue
		}
		node := g.nodes[pos]
		if len(node.up) == 0 {
			node.Branch = c.Hash
		}
		if len(c.Parents) == 0 {
			node.Kind = EndCommitNode
		}
		row := &Row{seq: pos, nodes: []*Node{node}}
		for i, p := range c.Parents {
			ppos, ok := g.index[p]
			if !ok {
				node.Kind = EndCommitNode
				continue
			}
			if !visible(ppos) {
				continue
			}
			branch := node.Branch
			if i > 0 {
				branch = p
			}
			parent := g.nodes[ppos]
			if len(parent.up) == 0 {
				parent.Branch = branch
				connect(node, parent, Usual, branch)
				continue
			}
			// The parent already has incoming lines from earlier rows: park
			// them on an EDGE_NODE in this row so they converge below it.
			en := &Node{Hash: p, Kind: EdgeNode, Branch: parent.Branch, up: parent.up}
			for _, e := range en.up {
				e.Down = en
			}
			parent.up = nil
			row.nodes = append(row.nodes, en)
			connect(en, parent, Usual, en.Branch)
			if lastChild[ppos] != pos {
				connect(node, parent, Usual, branch)
				continue
			}
			// The last context joins through its own EDGE_NODE, so k
			// converging children leave k EDGE_NODE occurrences.
			own := &Node{Hash: p, Kind: EdgeNode, Branch: branch}
			row.nodes = append(row.nodes, own)
			connect(node, own, Usual, branch)
			connect(own, parent, Usual, branch)
		}
		rows = append(rows, row)
	}
	return rows
}

// SortTopological reorders commits so that every commit precedes its
// parents. Among commits that are ready at the same time the one listed first
// in the input wins, so an already topological input is returned unchanged.
func SortTopological(commits []Commit) []Commit {
	index := make(map[string]int, len(commits))
	for i, c := range commits {
		if _, dup := index[c.Hash]; !dup {
			index[c.Hash] = i
		}
	}
	children := make([]int, len(commits))
	for i, c := range commits {
		if index[c.Hash] != i {
			continue
		}
		for _, p := range uniqueParents(c.Parents) {
			if pi, ok := index[p]; ok && pi != i {
				children[pi]++
			}
		}
	}
	ready := &intHeap{}
	for i, c := range commits {
		if index[c.Hash] == i && children[i] == 0 {
			heap.Push(ready, i)
		}
	}
	out := make([]Commit, 0, len(commits))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, commits[i])
		for _, p := range uniqueParents(commits[i].Parents) {
			pi, ok := index[p]
			if !ok || pi == i {
				continue
			}
			children[pi]--
			if children[pi] == 0 {
				heap.Push(ready, pi)
			}
		}
	}
	return out
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

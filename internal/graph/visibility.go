package graph

// SetVisibleBranchesNodes keeps only the commits reachable through parent
// links from the commits accepted by isSelected, and lays them out again.
// Hidden fragments are discarded; previously returned fragments become stale.
// The predicate sees arena nodes, visible or not.
func (g *Graph) SetVisibleBranchesNodes(isSelected func(*Node) bool) error {
	reach := make([]bool, len(g.commits))
	var stack []int
	for pos, n := range g.nodes {
		if isSelected(n) {
			reach[pos] = true
			stack = append(stack, pos)
		}
	}
	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.commits[pos].Parents {
			ppos, ok := g.index[p]
			if !ok || reach[ppos] {
				continue
			}
			reach[ppos] = true
			stack = append(stack, ppos)
		}
	}
	return g.relayout(func(pos int) bool { return reach[pos] })
}

// SetVisibleBranches is SetVisibleBranchesNodes selecting the given heads.
// Unknown hashes are ignored.
func (g *Graph) SetVisibleBranches(heads []string) error {
	selected := make(map[string]bool, len(heads))
	for _, h := range heads {
		selected[h] = true
	}
	return g.SetVisibleBranchesNodes(func(n *Node) bool { return selected[n.Hash] })
}

// ShowAll makes every loaded commit visible again.
func (g *Graph) ShowAll() error {
	return g.relayout(func(int) bool { return true })
}

func (g *Graph) relayout(visible func(pos int) bool) error {
	count := len(g.rows)
	g.epoch++
	rows := g.layout(visible)
	return g.ReplaceVisibleRows(0, count, rows)
}

package graph

import "slices"

// NodeKind tags one occurrence of a commit on a row.
type NodeKind uint8

const (
	// CommitNode is the occurrence of a loaded commit.
	CommitNode NodeKind = iota
	// EndCommitNode is a commit occurrence with nothing loaded below it: a
	// root commit or one whose parents are not loaded.
	EndCommitNode
	// EdgeNode is an extra occurrence of a commit that several children
	// reference; it carries the incoming lines until they converge.
	EdgeNode
)

func (k NodeKind) String() string {
	switch k {
	case EndCommitNode:
		return "END_COMMIT_NODE"
	case EdgeNode:
		return "EDGE_NODE"
	default:
		return "COMMIT_NODE"
	}
}

// EdgeKind distinguishes parent links from collapsed fragments.
type EdgeKind uint8

const (
	Usual EdgeKind = iota
	HideFragment
)

func (k EdgeKind) String() string {
	if k == HideFragment {
		return "HIDE_FRAGMENT"
	}
	return "USUAL"
}

// Node is one occurrence of a commit.
type Node struct {
	Hash   string
	Kind   NodeKind
	Branch string

	row  int
	up   []*Edge
	down []*Edge
}

// Row returns the visible row index, or -1.
func (n *Node) Row() int { return n.row }

// Up returns the edges towards children, in order.
func (n *Node) Up() []*Edge { return slices.Clone(n.up) }

// Down returns the edges towards parents, in order.
func (n *Node) Down() []*Edge { return slices.Clone(n.down) }

// Edge links an upper (newer) node to a lower (older) one.
type Edge struct {
	Up     *Node
	Down   *Node
	Kind   EdgeKind
	Branch string
}

func connect(up, down *Node, kind EdgeKind, branch string) *Edge {
	e := &Edge{Up: up, Down: down, Kind: kind, Branch: branch}
	up.down = append(up.down, e)
	down.up = append(down.up, e)
	return e
}

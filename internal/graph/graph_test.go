package graph

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func commit(hash string, parents ...string) Commit {
	return Commit{Hash: hash, Parents: parents}
}

func mustBuild(t *testing.T, commits ...Commit) *Graph {
	t.Helper()
	g, err := Build(commits)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	mustValidate(t, g)
	return g
}

func mustValidate(t *testing.T, g *Graph) {
	t.Helper()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v\n%s", err, g.Snapshot())
	}
}

func assertSnapshot(t *testing.T, g *Graph, want ...string) {
	t.Helper()
	got := g.Snapshot()
	expected := strings.Join(want, "\n")
	if got == expected {
		return
	}
	diff, err := DiffSnapshots(expected, got)
	if err != nil {
		t.Fatalf("snapshot mismatch (diff failed: %v):\n%s", err, got)
	}
	t.Fatalf("snapshot mismatch:\n%s", diff)
}

func rowHashes(g *Graph) []string {
	var out []string
	for _, r := range g.Rows() {
		out = append(out, r.Commit().Hash)
	}
	return out
}

func TestBuildLinearSnapshot(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("a0", "a1"), commit("a1", "a2"), commit("a2"))
	assertSnapshot(t, g,
		"a0||a0:a1:USUAL:a0|COMMIT_NODE|a0|0",
		"a1|a0:a1:USUAL:a0|a1:a2:USUAL:a0|COMMIT_NODE|a0|1",
		"a2|a1:a2:USUAL:a0||END_COMMIT_NODE|a0|2",
	)
}

func TestBuildMergeLabels(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("m", "a", "b"),
		commit("a", "base"),
		commit("b", "base"),
		commit("base"),
	)
	assertSnapshot(t, g,
		"m||m:a:USUAL:m m:b:USUAL:b|COMMIT_NODE|m|0",
		"a|m:a:USUAL:m|a:base:USUAL:m|COMMIT_NODE|m|1",
		"b|m:b:USUAL:b|b:base:USUAL:b|COMMIT_NODE|b|2",
		"base|a:base:USUAL:m|base:base:USUAL:m|EDGE_NODE|m|2",
		"base|b:base:USUAL:b|base:base:USUAL:b|EDGE_NODE|b|2",
		"base|base:base:USUAL:m base:base:USUAL:b||END_COMMIT_NODE|m|3",
	)
}

func TestBuildEdgeNodes(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("a0", "a1", "s"),
		commit("b0", "s"),
		commit("a1", "s"),
		commit("s"),
	)
	assertSnapshot(t, g,
		"a0||a0:a1:USUAL:a0 a0:s:USUAL:s|COMMIT_NODE|a0|0",
		"b0||b0:s:USUAL:b0|COMMIT_NODE|b0|1",
		"s|a0:s:USUAL:s|s:s:USUAL:s|EDGE_NODE|s|1",
		"a1|a0:a1:USUAL:a0|a1:s:USUAL:a0|COMMIT_NODE|a0|2",
		"s|s:s:USUAL:s b0:s:USUAL:b0|s:s:USUAL:s|EDGE_NODE|s|2",
		"s|a1:s:USUAL:a0|s:s:USUAL:a0|EDGE_NODE|a0|2",
		"s|s:s:USUAL:s s:s:USUAL:a0||END_COMMIT_NODE|s|3",
	)
	if edge, final := occurrences(g, "s"); edge != 3 || final != 1 {
		t.Fatalf("s occurrences = %d edge, %d final, want 3, 1", edge, final)
	}
}

// occurrences counts the EDGE_NODE and the commit occurrences of hash.
func occurrences(g *Graph, hash string) (edge, final int) {
	for _, r := range g.Rows() {
		for _, n := range r.Nodes() {
			if n.Hash != hash {
				continue
			}
			if n.Kind == EdgeNode {
				edge++
			} else {
				final++
			}
		}
	}
	return edge, final
}

func TestBuildTwoRootsConverge(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("a0", "s"), commit("b0", "s"), commit("s"))
	assertSnapshot(t, g,
		"a0||a0:s:USUAL:a0|COMMIT_NODE|a0|0",
		"b0||b0:s:USUAL:b0|COMMIT_NODE|b0|1",
		"s|a0:s:USUAL:a0|s:s:USUAL:a0|EDGE_NODE|a0|1",
		"s|b0:s:USUAL:b0|s:s:USUAL:b0|EDGE_NODE|b0|1",
		"s|s:s:USUAL:a0 s:s:USUAL:b0||END_COMMIT_NODE|a0|2",
	)
	if edge, final := occurrences(g, "s"); edge != 2 || final != 1 {
		t.Fatalf("s occurrences = %d edge, %d final, want 2, 1", edge, final)
	}
	if g.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", g.RowCount())
	}
}

func TestBuildEndCommitNode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		commits []Commit
	}{
		{name: "parent not loaded", commits: []Commit{commit("a0", "a1"), commit("a1", "a2"), commit("a2", "a3")}},
		{name: "no parents", commits: []Commit{commit("a0", "a1"), commit("a1", "a2"), commit("a2")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := mustBuild(t, tt.commits...)
			n, err := g.Node("a2")
			if err != nil {
				t.Fatalf("Node(a2) error = %v", err)
			}
			if n.Kind != EndCommitNode {
				t.Fatalf("a2 kind = %v, want %v", n.Kind, EndCommitNode)
			}
			if len(n.Down()) != 0 {
				t.Fatalf("a2 has %d down edges, want 0", len(n.Down()))
			}
			if a1 := mustNode(t, g, "a1"); a1.Kind != CommitNode {
				t.Fatalf("a1 kind = %v, want %v", a1.Kind, CommitNode)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		commits []Commit
		want    error
	}{
		{name: "empty hash", commits: []Commit{commit("")}, want: ErrInvalidCommit},
		{name: "duplicate", commits: []Commit{commit("a"), commit("a")}, want: ErrDuplicateCommit},
		{name: "parent first", commits: []Commit{commit("a1"), commit("a0", "a1")}, want: ErrParentOrder},
		{name: "self parent", commits: []Commit{commit("a0", "a0")}, want: ErrParentOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Build(tt.commits); !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildCollapsesDuplicateParents(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("a0", "a1", "a1"), commit("a1"))
	n, _ := g.Node("a0")
	if len(n.Down()) != 1 {
		t.Fatalf("a0 has %d down edges, want 1", len(n.Down()))
	}
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()
	g := mustBuild(t)
	if g.RowCount() != 0 || g.Snapshot() != "" {
		t.Fatalf("empty graph has %d rows, snapshot %q", g.RowCount(), g.Snapshot())
	}
}

func TestReplaceVisibleRows(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("a0", "a1"), commit("a1", "a2"), commit("a2"))
	before := g.Snapshot()
	rows := g.Rows()

	if err := g.ReplaceVisibleRows(1, 2, rows[1:2]); err != nil {
		t.Fatalf("identity replace error = %v", err)
	}
	if got := g.Snapshot(); got != before {
		t.Fatalf("identity replace changed snapshot:\n%s", got)
	}

	tests := []struct {
		name     string
		from, to int
		rows     []*Row
		want     error
	}{
		{name: "negative", from: -1, to: 1, want: ErrRowRange},
		{name: "inverted", from: 2, to: 1, want: ErrRowRange},
		{name: "past end", from: 0, to: 4, want: ErrRowRange},
		{name: "swapped", from: 0, to: 2, rows: []*Row{rows[1], rows[0]}, want: ErrRowOrder},
		{name: "duplicate", from: 1, to: 2, rows: []*Row{rows[0]}, want: ErrRowOrder},
		{name: "empty row", from: 1, to: 2, rows: []*Row{{seq: 1}}, want: ErrRowOrder},
	}
	for _, tt := range tests {
		if err := g.ReplaceVisibleRows(tt.from, tt.to, tt.rows); !errors.Is(err, tt.want) {
			t.Fatalf("%s: ReplaceVisibleRows() error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if got := g.Snapshot(); got != before {
		t.Fatalf("failed replace changed snapshot:\n%s", got)
	}
}

func TestReplaceVisibleRowsRenumbers(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("a0"), commit("b0"), commit("c0"))
	gen := g.Generation()
	if err := g.ReplaceVisibleRows(0, 1, nil); err != nil {
		t.Fatalf("ReplaceVisibleRows() error = %v", err)
	}
	mustValidate(t, g)
	if got, want := rowHashes(g), []string{"b0", "c0"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if g.Generation() == gen {
		t.Fatalf("generation not bumped")
	}
	a0, ok := g.Commit("a0")
	if !ok || a0.Row() != -1 || g.IsVisible(a0) {
		t.Fatalf("a0 still visible at row %d", a0.Row())
	}
	if _, err := g.Node("a0"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Node(a0) error = %v, want %v", err, ErrNodeNotFound)
	}
	if n, _ := g.NodeAt(1); n.Hash != "c0" {
		t.Fatalf("NodeAt(1) = %s, want c0", n.Hash)
	}
	if _, err := g.NodeAt(2); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("NodeAt(2) error = %v, want %v", err, ErrNodeNotFound)
	}
}

func TestSortTopological(t *testing.T) {
	t.Parallel()
	t.Run("already sorted", func(t *testing.T) {
		in := []Commit{commit("a0", "a1"), commit("b0", "a1"), commit("a1")}
		got := SortTopological(in)
		if !slices.EqualFunc(got, in, func(a, b Commit) bool { return a.Hash == b.Hash }) {
			t.Fatalf("SortTopological() reordered a topological input: %v", got)
		}
	})
	t.Run("reorders", func(t *testing.T) {
		in := []Commit{commit("a1", "s"), commit("s"), commit("a0", "a1")}
		var got []string
		for _, c := range SortTopological(in) {
			got = append(got, c.Hash)
		}
		if want := []string{"a0", "a1", "s"}; !slices.Equal(got, want) {
			t.Fatalf("SortTopological() = %v, want %v", got, want)
		}
	})
}

func TestDiffSnapshots(t *testing.T) {
	t.Parallel()
	if d, err := DiffSnapshots("a\nb", "a\nb"); err != nil || d != "" {
		t.Fatalf("DiffSnapshots(equal) = %q, %v", d, err)
	}
	d, err := DiffSnapshots("a\nb", "a\nc")
	if err != nil {
		t.Fatalf("DiffSnapshots() error = %v", err)
	}
	if !strings.Contains(d, "-b\n") || !strings.Contains(d, "+c\n") {
		t.Fatalf("unexpected diff:\n%s", d)
	}
}

func TestToDOT(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("a0", "a1", "s"),
		commit("b0", "s"),
		commit("a1", "s"),
		commit("s", "gone"),
	)
	dot := ToDOT(g, DOTOptions{})
	for _, want := range []string{`"a0" -> "s";`, `"b0" -> "s";`, `"s" [label="s", peripheries=2];`} {
		if !strings.Contains(dot, want) {
			t.Fatalf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"s" -> "s"`) {
		t.Fatalf("DOT has a self loop:\n%s", dot)
	}
}

func TestRenderDOT(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, commit("m", "a", "b"), commit("a", "base"), commit("b", "base"), commit("base"))
	svg, err := RenderDOT(context.Background(), ToDOT(g, DOTOptions{ShortHashes: 2}))
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}
	out := string(svg)
	for _, want := range []string{"<svg", "</svg>", ">ba<"} {
		if !strings.Contains(out, want) {
			t.Fatalf("SVG missing %q:\n%s", want, out)
		}
	}
}

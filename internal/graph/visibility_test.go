package graph

import (
	"slices"
	"testing"
)

func TestSetVisibleBranchesReachability(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("a0", "a1", "a4"),
		commit("a1", "a2", "a3"),
		commit("a2", "a3"),
		commit("a3", "a4"),
		commit("a4"),
	)
	if err := g.SetVisibleBranches([]string{"a1"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	if got, want := rowHashes(g), []string{"a1", "a2", "a3", "a4"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i, hash := range []string{"a1", "a2", "a3", "a4"} {
		if row := mustNode(t, g, hash).Row(); row != i {
			t.Fatalf("%s row = %d, want %d", hash, row, i)
		}
	}
	a0, _ := g.Commit("a0")
	if g.IsVisible(a0) {
		t.Fatalf("a0 visible after filtering")
	}
}

func TestSetVisibleBranchesConvergence(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("a0", "a1", "s"),
		commit("b0", "s"),
		commit("c0", "c1"),
		commit("a1", "s"),
		commit("c1"),
		commit("s"),
	)
	if err := g.SetVisibleBranches([]string{"a0", "b0"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	assertSnapshot(t, g,
		"a0||a0:a1:USUAL:a0 a0:s:USUAL:s|COMMIT_NODE|a0|0",
		"b0||b0:s:USUAL:b0|COMMIT_NODE|b0|1",
		"s|a0:s:USUAL:s|s:s:USUAL:s|EDGE_NODE|s|1",
		"a1|a0:a1:USUAL:a0|a1:s:USUAL:a0|COMMIT_NODE|a0|2",
		"s|s:s:USUAL:s b0:s:USUAL:b0|s:s:USUAL:s|EDGE_NODE|s|2",
		"s|a1:s:USUAL:a0|s:s:USUAL:a0|EDGE_NODE|a0|2",
		"s|s:s:USUAL:s s:s:USUAL:a0||END_COMMIT_NODE|s|3",
	)
	if g.RowCount() != 4 {
		t.Fatalf("RowCount() = %d, want 4", g.RowCount())
	}
}

func TestSetVisibleBranchesTwoRoots(t *testing.T) {
	t.Parallel()
	g := mustBuild(t,
		commit("a0", "s"),
		commit("x0", "x1"),
		commit("b0", "s"),
		commit("x1"),
		commit("s"),
	)
	if err := g.SetVisibleBranches([]string{"a0", "b0"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	if edge, final := occurrences(g, "s"); edge != 2 || final != 1 {
		t.Fatalf("s occurrences = %d edge, %d final, want 2, 1", edge, final)
	}
	if got, want := rowHashes(g), []string{"a0", "b0", "s"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}

	if err := g.SetVisibleBranches([]string{"a0"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	if edge, final := occurrences(g, "s"); edge != 0 || final != 1 {
		t.Fatalf("single branch: s occurrences = %d edge, %d final, want 0, 1", edge, final)
	}
}

func TestSetVisibleBranchesRoundTrip(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, twoBranches()...)
	before := g.Snapshot()

	if err := g.SetVisibleBranchesNodes(func(*Node) bool { return false }); err != nil {
		t.Fatalf("SetVisibleBranchesNodes() error = %v", err)
	}
	if g.RowCount() != 0 || g.Snapshot() != "" {
		t.Fatalf("empty selection left %d rows", g.RowCount())
	}

	if err := g.SetVisibleBranches([]string{"b2", "unknown"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	if got, want := rowHashes(g), []string{"b2", "base", "root"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if b2 := mustNode(t, g, "b2"); b2.Branch != "b2" {
		t.Fatalf("b2 branch = %q, want b2", b2.Branch)
	}

	if err := g.ShowAll(); err != nil {
		t.Fatalf("ShowAll() error = %v", err)
	}
	if got := g.Snapshot(); got != before {
		diff, _ := DiffSnapshots(before, got)
		t.Fatalf("ShowAll() did not restore the graph:\n%s", diff)
	}
}

func TestSetVisibleBranchesDropsHiddenFragments(t *testing.T) {
	t.Parallel()
	g := mustBuild(t, twoBranches()...)
	f := mustRelate(t, g, "a1")
	if err := g.Hide(f); err != nil {
		t.Fatalf("Hide() error = %v", err)
	}
	if err := g.SetVisibleBranches([]string{"m"}); err != nil {
		t.Fatalf("SetVisibleBranches() error = %v", err)
	}
	mustValidate(t, g)
	if g.RowCount() != len(twoBranches()) {
		t.Fatalf("RowCount() = %d, want %d", g.RowCount(), len(twoBranches()))
	}
	for _, r := range g.Rows() {
		for _, e := range r.Commit().Down() {
			if e.Kind == HideFragment {
				t.Fatalf("hide edge %s survived a visibility change", e)
			}
		}
	}
}

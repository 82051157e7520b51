package gui

import (
	"strings"
	"testing"
)

func TestFormatShortcutsHelpText(t *testing.T) {
	bindings := []shortcutBinding{
		{category: "General", display: "/", description: "Focus the branch entry"},
		{category: "General", display: "F5", description: "Reload commits"},
		{category: "", display: "x", description: "ignored (no category)"},
		{category: "Other", display: "", description: "ignored (no display)"},
		{category: "Graph", display: "e", description: "Expand every collapsed run"},
	}
	got := formatShortcutsHelpText(bindings)

	want := "General\n" +
		"  /                  Focus the branch entry\n" +
		"  F5                 Reload commits\n" +
		"\n" +
		"Graph\n" +
		"  e                  Expand every collapsed run"
	if got != want {
		t.Fatalf("formatShortcutsHelpText() =\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "ignored") {
		t.Fatalf("expected ignored bindings to be absent, got %q", got)
	}
}

func TestShortcutBindingsComplete(t *testing.T) {
	a := &Controller{}
	seen := map[string]bool{}
	for _, sc := range a.shortcutBindings() {
		if sc.handler == nil {
			t.Fatalf("binding %q has no handler", sc.display)
		}
		for _, seq := range sc.sequences {
			if seen[seq] {
				t.Fatalf("sequence %s bound twice", seq)
			}
			seen[seq] = true
		}
	}
}

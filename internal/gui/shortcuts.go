package gui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/thiagokokada/loggraph/internal/gui/tkutil"
	. "modernc.org/tk9.0"
)

func (a *Controller) bindShortcuts() {
	for _, sc := range a.shortcutBindings() {
		if sc.handler == nil {
			continue
		}
		handler := sc.handler
		for _, seq := range sc.sequences {
			if seq == "" {
				continue
			}
			if sc.navigation {
				Bind(App, seq, Command(func() {
					if a.entryHasFocus() {
						return
					}
					handler()
				}))
				continue
			}
			Bind(App, seq, Command(handler))
		}
	}
}

type shortcutBinding struct {
	sequences   []string
	display     string
	description string
	category    string
	navigation  bool
	handler     func()
}

func (a *Controller) shortcutBindings() []shortcutBinding {
	return []shortcutBinding{
		{
			category:    "Graph",
			display:     "j / Down",
			description: "Scroll down one row",
			sequences:   []string{"<KeyPress-j>", "<KeyPress-Down>"},
			navigation:  true,
			handler:     func() { a.scrollGraph(1, "units") },
		},
		{
			category:    "Graph",
			display:     "k / Up",
			description: "Scroll up one row",
			sequences:   []string{"<KeyPress-k>", "<KeyPress-Up>"},
			navigation:  true,
			handler:     func() { a.scrollGraph(-1, "units") },
		},
		{
			category:    "Graph",
			display:     "Page Down / Space",
			description: "Scroll down one page",
			sequences:   []string{"<KeyPress-Next>", "<KeyPress-space>"},
			navigation:  true,
			handler:     func() { a.scrollGraph(1, "pages") },
		},
		{
			category:    "Graph",
			display:     "Page Up",
			description: "Scroll up one page",
			sequences:   []string{"<KeyPress-Prior>"},
			navigation:  true,
			handler:     func() { a.scrollGraph(-1, "pages") },
		},
		{
			category:    "Graph",
			display:     "Home / End",
			description: "Jump to the first or last commit",
			sequences:   []string{"<KeyPress-Home>"},
			navigation:  true,
			handler:     func() { a.scrollGraphTo(0) },
		},
		{
			sequences:  []string{"<KeyPress-End>"},
			navigation: true,
			handler:    func() { a.scrollGraphTo(1) },
		},
		{
			category:    "Graph",
			display:     "e",
			description: "Expand every collapsed run",
			sequences:   []string{"<KeyPress-e>"},
			navigation:  true,
			handler:     a.expandAll,
		},
		{
			category:    "Branches",
			display:     "/",
			description: "Focus the branch entry",
			sequences:   []string{"<KeyPress-slash>"},
			navigation:  true,
			handler:     a.focusBranchEntry,
		},
		{
			category:    "Branches",
			display:     "a",
			description: "Show all branches",
			sequences:   []string{"<KeyPress-a>"},
			navigation:  true,
			handler:     a.showAllBranches,
		},
		{
			category:    "General",
			display:     "F5 / Ctrl+R",
			description: "Reload commits",
			sequences:   []string{"<KeyPress-F5>", "<Control-KeyPress-r>"},
			handler:     a.reloadCommitsAsync,
		},
		{
			category:    "General",
			display:     "Escape",
			description: "Leave the branch entry",
			sequences:   []string{"<KeyPress-Escape>"},
			handler:     a.blurBranchEntry,
		},
		{
			category:    "General",
			display:     "Ctrl+Q",
			description: "Quit",
			sequences:   []string{"<Control-KeyPress-q>"},
			handler:     func() { Destroy(App) },
		},
	}
}

func (a *Controller) entryHasFocus() bool {
	if a.ui.branches == nil {
		return false
	}
	return Focus() == a.ui.branches.String()
}

func (a *Controller) focusBranchEntry() {
	if a.ui.branches == nil || a.entryHasFocus() {
		return
	}
	if _, err := tkutil.Eval("focus %s", a.ui.branches); err != nil {
		slog.Error("focus branch entry", slog.Any("error", err))
	}
	tkutil.EvalOrEmpty("%s selection range 0 end", a.ui.branches)
	tkutil.EvalOrEmpty("%s icursor end", a.ui.branches)
}

func (a *Controller) blurBranchEntry() {
	if !a.entryHasFocus() || a.ui.graph == nil {
		return
	}
	if _, err := tkutil.Eval("focus %s", a.ui.graph); err != nil {
		slog.Error("blur branch entry", slog.Any("error", err))
	}
}

func (a *Controller) showShortcutsDialog() {
	dialog := App.Toplevel()
	dialog.WmTitle("Keyboard Shortcuts")
	frame := dialog.TFrame(Padding("12p"))
	Grid(frame, Row(0), Column(0), Sticky(NEWS))
	Grid(frame.TLabel(Txt(formatShortcutsHelpText(a.shortcutBindings())), Anchor(W)),
		Row(0), Column(0), Sticky(W))
	closeBtn := frame.TButton(Txt("Close"), Command(func() { Destroy(dialog.Window) }))
	Grid(closeBtn, Row(1), Column(0), Sticky(E), Pady("8p 0"))
	Bind(dialog.Window, "<KeyPress-Escape>", Command(func() { Destroy(dialog.Window) }))
}

// formatShortcutsHelpText groups bindings by category. Bindings without a
// category, display or description are omitted.
func formatShortcutsHelpText(bindings []shortcutBinding) string {
	var b strings.Builder
	currentCategory := ""
	for _, sc := range bindings {
		if sc.category == "" || sc.display == "" || sc.description == "" {
			continue
		}
		if sc.category != currentCategory {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			currentCategory = sc.category
			b.WriteString(currentCategory)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %-18s %s\n", sc.display, sc.description)
	}
	return strings.TrimRight(b.String(), "\n")
}

package gui

import (
	"fmt"

	"github.com/thiagokokada/loggraph/internal/gui/tkutil"

	. "modernc.org/tk9.0"
)

func (a *Controller) buildUI() {
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	controls := App.TFrame(Padding("8p"))
	Grid(controls, Row(0), Column(0), Sticky(WE))
	GridColumnConfigure(controls.Window, 1, Weight(1))

	a.ui.repoLabel = controls.TLabel(Txt(fmt.Sprintf("Repository: %s", a.repo.path)), Anchor(W))
	Grid(a.ui.repoLabel, Row(0), Column(0), Columnspan(5), Sticky(W))

	Grid(controls.TLabel(Txt("Branches:"), Anchor(E)), Row(1), Column(0), Sticky(E))
	a.ui.branches = controls.TEntry(Width(40), Textvariable(a.repo.refs))
	Grid(a.ui.branches, Row(1), Column(1), Sticky(WE), Padx("4p"))
	Bind(a.ui.branches, "<KeyPress-Return>", Command(func() {
		a.applyBranches(a.ui.branches.Textvariable())
	}))

	applyBtn := controls.TButton(Txt("Apply"), Command(func() {
		a.applyBranches(a.ui.branches.Textvariable())
	}))
	Grid(applyBtn, Row(1), Column(2), Sticky(E), Padx("4p"))
	allBtn := controls.TButton(Txt("All"), Command(a.showAllBranches))
	Grid(allBtn, Row(1), Column(3), Sticky(E), Padx("0 4p"))
	a.ui.reloadButton = controls.TButton(Txt("Reload"), Command(a.onReloadButton))
	Grid(a.ui.reloadButton, Row(1), Column(4), Sticky(E))

	graphArea := App.TFrame()
	Grid(graphArea, Row(1), Column(0), Sticky(NEWS), Padx("4p"), Pady("4p"))
	GridRowConfigure(graphArea.Window, 0, Weight(1))
	GridColumnConfigure(graphArea.Window, 0, Weight(1))

	scroll := graphArea.TScrollbar()
	a.ui.graph = graphArea.Canvas(
		Background(a.theme.palette.Background),
		Highlightthickness(0),
		Yscrollcommand(func(e *Event) {
			e.ScrollSet(scroll)
			a.scheduleRedraw()
		}),
	)
	Grid(a.ui.graph, Row(0), Column(0), Sticky(NEWS))
	Grid(scroll, Row(0), Column(1), Sticky(NS))
	scroll.Configure(Command(func(e *Event) { e.Yview(a.ui.graph) }))

	Bind(a.ui.graph, "<Button-1>", Command(a.onCanvasClick))
	Bind(a.ui.graph, "<Motion>", Command(a.onCanvasMotion))
	Bind(a.ui.graph, "<Leave>", Command(a.clearHover))
	Bind(a.ui.graph, "<Configure>", Command(a.scheduleRedraw))
	tkutil.EvalOrEmpty("bind %[1]s <MouseWheel> {%[1]s yview scroll [expr {%%D > 0 ? -3 : 3}] units}", a.ui.graph)
	Bind(a.ui.graph, "<Button-4>", Command(func() { a.scrollGraph(-3, "units") }))
	Bind(a.ui.graph, "<Button-5>", Command(func() { a.scrollGraph(3, "units") }))

	a.ui.status = App.TLabel(Anchor(W), Relief(SUNKEN), Padding("4p"))
	Grid(a.ui.status, Row(2), Column(0), Sticky(WE))
}

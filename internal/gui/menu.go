package gui

import (
	"fmt"

	"github.com/thiagokokada/loggraph/internal/buildinfo"
	. "modernc.org/tk9.0"
)

func (a *Controller) initMenubar() {
	menubar := Menu(Tearoff(false))

	fileMenu := menubar.Menu(Tearoff(false))
	fileMenu.AddCommand(Lbl("Reload"), Command(a.reloadCommitsAsync))
	fileMenu.AddSeparator()
	fileMenu.AddCommand(Lbl("Quit"), Command(func() { Destroy(App) }))
	menubar.AddCascade(Lbl("File"), Mnu(fileMenu))

	viewMenu := menubar.Menu(Tearoff(false))
	viewMenu.AddCommand(Lbl("Show All Branches"), Command(a.showAllBranches))
	viewMenu.AddCommand(Lbl("Expand All"), Command(a.expandAll))
	menubar.AddCascade(Lbl("View"), Mnu(viewMenu))

	helpMenu := menubar.Menu(Tearoff(false))
	helpMenu.AddCommand(Lbl("Keyboard Shortcuts"), Command(a.showShortcutsDialog))
	helpMenu.AddCommand(Lbl("About loggraph"), Command(a.showAboutDialog))
	menubar.AddCascade(Lbl("Help"), Mnu(helpMenu))

	App.Configure(Mnu(menubar))
}

func (a *Controller) showAboutDialog() {
	MessageBox(
		Parent(App),
		Title("About loggraph"),
		Icon("info"),
		Msg(fmt.Sprintf("loggraph %s", buildinfo.VersionWithTags())),
		Type("ok"),
	)
}

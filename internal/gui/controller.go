package gui

import (
	"github.com/thiagokokada/loggraph/internal/config"
	"github.com/thiagokokada/loggraph/internal/git"
	"github.com/thiagokokada/loggraph/internal/paint"
	"github.com/thiagokokada/loggraph/internal/session"

	. "modernc.org/tk9.0"
)

type Controller struct {
	svc *git.Service
	cfg config.Config

	repo  controllerRepo
	theme controllerTheme
	data  controllerData
	ui    appWidgets

	painter *paint.Painter
	watch   autoReloadState
	canvas  canvasState
}

type controllerRepo struct {
	path string
	// refs is the text of the branch entry last applied.
	refs string
}

type controllerTheme struct {
	pref    ThemePreference
	palette colorPalette
}

// controllerData is replaced as a whole by every load.
type controllerData struct {
	history *git.History
	labels  map[string][]string
	sess    *session.Session
	loading bool
}

type appWidgets struct {
	repoLabel    *TLabelWidget
	branches     *TEntryWidget
	reloadButton *TButtonWidget
	graph        *CanvasWidget
	status       *TLabelWidget
}

package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thiagokokada/loggraph/internal/config"
	"github.com/thiagokokada/loggraph/internal/git"
	"github.com/thiagokokada/loggraph/internal/session"

	. "modernc.org/tk9.0"
	_ "modernc.org/tk9.0/themes/azure" // load theme
)

// RunConfig describes the parameters that control the GUI runtime.
type RunConfig struct {
	RepoPath string
	Config   config.Config
	// Refs restricts the initial graph to the history of these refs.
	Refs []string
}

func Run(cfg RunConfig) error {
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	if err := InitializeExtension("eval"); err != nil && err != AlreadyInitialized {
		return fmt.Errorf("init eval extension: %v", err)
	}
	svc, err := git.Open(cfg.RepoPath, cfg.Config.BackendKind())
	if err != nil {
		return err
	}
	app := &Controller{
		svc:   svc,
		cfg:   cfg.Config,
		repo:  controllerRepo{path: svc.RepoPath(), refs: strings.Join(cfg.Refs, " ")},
		theme: controllerTheme{pref: ThemePreferenceFromString(cfg.Config.View.Theme)},
	}
	return app.run()
}

func (a *Controller) run() error {
	defer a.shutdown()
	a.theme.palette = paletteForPreference(a.theme.pref)
	if a.theme.palette.ThemeName != "" {
		if err := ActivateTheme(a.theme.palette.ThemeName); err != nil {
			slog.Error("activate theme",
				slog.String("theme", a.theme.palette.ThemeName),
				slog.Any("error", err),
			)
		}
	}
	selection := a.cfg.Paint.SelectionColor
	if selection == config.Default().Paint.SelectionColor {
		selection = ""
	}
	a.painter = painterFor(a.theme.palette, a.cfg.Paint.RowHeight, a.cfg.Paint.Palette, selection)

	a.buildUI()
	a.initMenubar()
	a.bindShortcuts()
	a.initAutoReload(a.cfg.View.AutoReload)
	a.setStatus("Loading commits...")
	a.reloadCommitsAsync()
	App.WmTitle("loggraph")
	App.SetResizable(true, true)
	App.Center().Wait()
	return nil
}

// loadResult is produced off the Tk thread and applied with PostEvent.
type loadResult struct {
	data controllerData
	err  error
}

func (a *Controller) reloadCommitsAsync() {
	if a.data.loading {
		return
	}
	a.data.loading = true
	refs := parseRefList(a.repo.refs)
	go func() {
		res := a.loadCommits(refs)
		PostEvent(func() { a.applyLoaded(res) }, false)
	}()
}

func (a *Controller) loadCommits(refs []string) loadResult {
	ctx := context.Background()
	h, err := a.svc.LoadCommits(ctx, git.LoadOptions{Limit: a.cfg.Graph.Limit})
	if err != nil {
		return loadResult{err: err}
	}
	labels, err := a.svc.BranchLabels()
	if err != nil {
		return loadResult{err: err}
	}
	sess, err := session.New(h.Commits, session.Options{LongEdgeSize: a.cfg.Graph.LongEdgeSize})
	if err != nil {
		return loadResult{err: err}
	}
	if len(refs) > 0 {
		heads, err := a.svc.ResolveHeads(h, refs)
		if err != nil {
			slog.Error("resolve branches", slog.Any("refs", refs), slog.Any("error", err))
		} else if err := sess.SetVisibleBranches(heads); err != nil {
			return loadResult{err: err}
		}
	}
	return loadResult{data: controllerData{history: h, labels: labels, sess: sess}}
}

func (a *Controller) applyLoaded(res loadResult) {
	a.data.loading = false
	if res.err != nil {
		slog.Error("load commits", slog.Any("error", res.err))
		a.setStatus(fmt.Sprintf("Error: %v", res.err))
		return
	}
	a.data = res.data
	a.redrawGraph()
	a.updateStatus()
}

// applyBranches filters the graph to the refs typed in the branch entry. An
// empty entry shows every branch.
func (a *Controller) applyBranches(text string) {
	sess := a.data.sess
	if sess == nil {
		return
	}
	refs := parseRefList(text)
	var err error
	if len(refs) == 0 {
		err = sess.ShowAll()
	} else {
		var heads []string
		heads, err = a.svc.ResolveHeads(a.data.history, refs)
		if err == nil {
			err = sess.SetVisibleBranches(heads)
		}
	}
	if err != nil {
		a.setStatus(fmt.Sprintf("Error: %v", err))
		return
	}
	a.repo.refs = text
	a.redrawGraph()
	a.updateStatus()
}

func (a *Controller) showAllBranches() {
	if a.ui.branches != nil {
		a.ui.branches.Configure(Textvariable(""))
	}
	a.applyBranches("")
}

func (a *Controller) expandAll() {
	sess := a.data.sess
	if sess == nil {
		return
	}
	if err := sess.ShowAllFragments(); err != nil {
		a.setStatus(fmt.Sprintf("Error: %v", err))
	}
	a.redrawGraph()
	a.updateStatus()
}

func (a *Controller) updateStatus() {
	sess := a.data.sess
	if sess == nil {
		return
	}
	a.setStatus(statusText(len(a.data.history.Commits), sess.RowCount(), sess.HiddenCount(), a.data.history.Truncated))
}

func statusText(loaded, rows, collapsed int, truncated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d commits shown", rows, loaded)
	if collapsed > 0 {
		fmt.Fprintf(&b, ", %d collapsed runs", collapsed)
	}
	if truncated {
		b.WriteString(" (history truncated)")
	}
	return b.String()
}

// parseRefList splits the branch entry on whitespace and commas.
func parseRefList(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func (a *Controller) setStatus(text string) {
	if a.ui.status == nil {
		return
	}
	a.ui.status.Configure(Txt(text))
}

func (a *Controller) reportToggle(err error) {
	switch {
	case err == nil:
		a.updateStatus()
	case errors.Is(err, session.ErrNoFragment):
		a.setStatus("Nothing to collapse here")
	default:
		slog.Error("toggle fragment", slog.Any("error", err))
		a.setStatus(fmt.Sprintf("Error: %v", err))
	}
}

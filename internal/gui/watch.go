package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thiagokokada/loggraph/internal/debounce"
	. "modernc.org/tk9.0"
)

const autoReloadDebounceDelay = 350 * time.Millisecond

type autoReloadState struct {
	mu         sync.Mutex
	configured bool
	enabled    bool
	watcher    *fsnotify.Watcher
	debounce   *debounce.Debouncer
}

func (a *Controller) initAutoReload(requested bool) {
	a.watch.mu.Lock()
	a.watch.configured = requested
	a.watch.mu.Unlock()
	if requested {
		if err := a.enableAutoReload(); err != nil {
			slog.Error("auto reload disabled", slog.Any("error", err))
			a.watch.mu.Lock()
			a.watch.configured = false
			a.watch.mu.Unlock()
		}
	}
	a.updateReloadButtonLabel()
}

func (a *Controller) enableAutoReload() error {
	a.watch.mu.Lock()
	defer a.watch.mu.Unlock()
	if !a.watch.configured || a.watch.enabled {
		return nil
	}
	paths := watchPaths(a.repo.path)
	if len(paths) == 0 {
		return fmt.Errorf("watch %s: no git directory", a.repo.path)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	for _, path := range paths {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, errors.Join(err, watcher.Close()))
		}
	}
	debounce.Ensure(&a.watch.debounce, autoReloadDebounceDelay, func() {
		PostEvent(a.reloadCommitsAsync, false)
	})
	a.watch.watcher = watcher
	a.watch.enabled = true
	go a.watchLoop(watcher)
	return nil
}

func (a *Controller) disableAutoReload() {
	a.watch.mu.Lock()
	defer a.watch.mu.Unlock()
	if a.watch.debounce != nil {
		a.watch.debounce.Stop()
		a.watch.debounce = nil
	}
	if a.watch.watcher != nil {
		if err := a.watch.watcher.Close(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
		a.watch.watcher = nil
	}
	a.watch.enabled = false
}

func (a *Controller) shutdown() {
	a.disableAutoReload()
}

func (a *Controller) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !affectsHistory(ev) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			a.scheduleAutoReload()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (a *Controller) scheduleAutoReload() {
	a.watch.mu.Lock()
	defer a.watch.mu.Unlock()
	if !a.watch.enabled || a.watch.debounce == nil {
		return
	}
	a.watch.debounce.Trigger()
}

// watchPaths lists the directories whose changes can move a ref: the git
// directory itself (HEAD, packed-refs) and the loose ref namespaces that
// exist. fsnotify does not recurse, so nested branch names like feature/x
// are only seen through packed-refs or the next reload.
func watchPaths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		// Bare repository.
		if _, err := os.Stat(filepath.Join(root, "HEAD")); err != nil {
			return nil
		}
		gitDir = root
	}
	paths := []string{gitDir}
	for _, sub := range []string{"heads", "tags", "remotes"} {
		dir := filepath.Join(gitDir, "refs", sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	return paths
}

var historyFiles = []string{"HEAD", "packed-refs", "ORIG_HEAD", "FETCH_HEAD"}

// affectsHistory reports whether ev may change the loaded commits. Index and
// lock file churn from ordinary git commands is ignored.
func affectsHistory(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(ev.Name)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lock", ".ipc":
		return false
	}
	if slices.Contains(historyFiles, name) {
		return true
	}
	return strings.Contains(filepath.ToSlash(ev.Name), "/refs/")
}

func (a *Controller) updateReloadButtonLabel() {
	if a.ui.reloadButton == nil {
		return
	}
	a.watch.mu.Lock()
	label := reloadButtonLabel(a.watch.configured, a.watch.enabled)
	a.watch.mu.Unlock()
	a.ui.reloadButton.Configure(Txt(label))
}

func reloadButtonLabel(configured, enabled bool) string {
	switch {
	case !configured:
		return "Reload"
	case enabled:
		return "Reload (Auto On)"
	default:
		return "Reload (Auto Off)"
	}
}

func (a *Controller) onReloadButton() {
	a.watch.mu.Lock()
	configured, enabled := a.watch.configured, a.watch.enabled
	a.watch.mu.Unlock()
	if configured {
		if enabled {
			a.disableAutoReload()
		} else if err := a.enableAutoReload(); err != nil {
			slog.Error("auto reload enable failed", slog.Any("error", err))
		}
		a.updateReloadButtonLabel()
	}
	a.reloadCommitsAsync()
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thiagokokada/loggraph/internal/git"
	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/layout"
	"github.com/thiagokokada/loggraph/internal/session"
)

// repoGraph is a loaded repository and the session over its graph.
type repoGraph struct {
	svc     *git.Service
	history *git.History
	labels  map[string][]string
	sess    *session.Session
}

func (o *rootOpts) load(ctx context.Context) (*repoGraph, error) {
	p := newProgress()
	svc, err := git.Open(o.repo, o.cfg.BackendKind())
	if err != nil {
		return nil, err
	}
	h, err := svc.LoadCommits(ctx, git.LoadOptions{Limit: o.cfg.Graph.Limit})
	if err != nil {
		return nil, err
	}
	labels, err := svc.BranchLabels()
	if err != nil {
		return nil, err
	}
	sess, err := session.New(h.Commits, session.Options{LongEdgeSize: o.cfg.Graph.LongEdgeSize})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	p.done(ctx, "history loaded",
		slog.String("repo", svc.RepoPath()),
		slog.Int("commits", len(h.Commits)),
		slog.Bool("truncated", h.Truncated),
	)
	return &repoGraph{svc: svc, history: h, labels: labels, sess: sess}, nil
}

// filter restricts the session to the history of refs, if any.
func (r *repoGraph) filter(refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	heads, err := r.svc.ResolveHeads(r.history, refs)
	if err != nil {
		return err
	}
	return r.sess.SetVisibleBranches(heads)
}

// describe returns "subject (labels)" for a commit.
func (r *repoGraph) describe(hash string) string {
	text := r.history.Subject(hash)
	if labels := r.labels[hash]; len(labels) > 0 {
		text += " (" + strings.Join(labels, ", ") + ")"
	}
	return text
}

// writeRows prints one line per visible row: abbreviated hash and
// description. Collapsed fragments show as a marker line.
func (r *repoGraph) writeRows(w io.Writer) error {
	var lines []string
	r.sess.View(func(g *graph.Graph, _ *layout.Layout) {
		for _, row := range g.Rows() {
			n := row.Commit()
			lines = append(lines, shortHash(n.Hash)+" "+r.describe(n.Hash))
			for _, e := range n.Down() {
				if e.Kind == graph.HideFragment {
					lines = append(lines, "   ... collapsed until "+shortHash(e.Down.Hash))
				}
			}
		}
	})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}

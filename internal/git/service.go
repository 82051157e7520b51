package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	gitbackend "github.com/thiagokokada/loggraph/internal/git/backend"
	"github.com/thiagokokada/loggraph/internal/graph"
)

// DefaultLimit caps the number of commits loaded when no limit is given.
const DefaultLimit = 5000

// Service loads commit history from a Backend and shapes it for the graph
// engine.
type Service struct {
	// mu serializes walks over the backend.
	mu      sync.Mutex
	backend gitbackend.Backend
}

// Open opens the repository containing repoPath with the given backend.
func Open(repoPath string, kind gitbackend.Kind) (*Service, error) {
	b, err := gitbackend.Open(repoPath, kind)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(b), nil
}

func NewWithBackend(b gitbackend.Backend) *Service {
	return &Service{backend: b}
}

func (s *Service) RepoPath() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.RepoPath()
}

type LoadOptions struct {
	// Limit is the maximum number of commits to load. Zero means
	// DefaultLimit, a negative value means no limit.
	Limit int
	// From restricts the walk to the history of these revisions. Empty
	// means every ref.
	From []string
}

// History is a loaded slice of the commit graph, children before parents.
type History struct {
	Commits []graph.Commit
	// Truncated is set when Limit cut the walk short.
	Truncated bool

	meta map[string]*gitbackend.Commit
}

// Info returns the metadata of a loaded commit.
func (h *History) Info(hash string) (*gitbackend.Commit, bool) {
	c, ok := h.meta[hash]
	return c, ok
}

// Subject returns the first message line of a loaded commit, or "".
func (h *History) Subject(hash string) string {
	if c, ok := h.meta[hash]; ok {
		return c.Subject
	}
	return ""
}

// LoadCommits reads the history and returns it in topological order.
// Commits whose parents fall beyond the limit keep their parent hashes; the
// graph marks them as END_COMMIT_NODEs.
func (s *Service) LoadCommits(ctx context.Context, opts LoadOptions) (*History, error) {
	if s.backend == nil {
		return nil, gitbackend.ErrNoRepository
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	slog.Debug("LoadCommits start",
		slog.Int("limit", limit),
		slog.Any("from", opts.From),
	)
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.backend.StartLogStream(ctx, opts.From)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	h := &History{meta: map[string]*gitbackend.Commit{}}
	var commits []graph.Commit
	for {
		if limit > 0 && len(commits) == limit {
			h.Truncated = true
			break
		}
		c, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate commits: %w", err)
		}
		if _, dup := h.meta[c.Hash]; dup {
			continue
		}
		h.meta[c.Hash] = c
		commits = append(commits, graph.Commit{Hash: c.Hash, Parents: c.ParentHashes})
	}
	if h.Truncated {
		// An exact fit is not a truncation.
		if _, err := stream.Next(); errors.Is(err, io.EOF) {
			h.Truncated = false
		}
	}
	h.Commits = graph.SortTopological(commits)
	slog.Debug("LoadCommits done",
		slog.Int("commits", len(h.Commits)),
		slog.Bool("truncated", h.Truncated),
	)
	return h, nil
}

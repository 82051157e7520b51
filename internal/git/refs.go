package git

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	gitbackend "github.com/thiagokokada/loggraph/internal/git/backend"
)

var (
	ErrUnknownRef   = errors.New("unknown revision")
	ErrAmbiguousRef = errors.New("ambiguous revision")
)

// minHashPrefix is the shortest abbreviated hash ResolveHeads accepts.
const minHashPrefix = 4

// BranchLabels maps commit hashes to decorations such as "HEAD -> main",
// "origin/main" or "tag: v1". Remote HEAD aliases are skipped.
func (s *Service) BranchLabels() (map[string][]string, error) {
	labels := map[string][]string{}
	if s.backend == nil || s.backend.RepoPath() == "" {
		return labels, nil
	}

	refs, err := s.backend.ListRefs()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if ref.Hash == "" || ref.Name == "" {
			continue
		}
		if ref.Kind == gitbackend.RefKindRemoteBranch && strings.HasSuffix(ref.Name, "/HEAD") {
			continue
		}
		label := ref.Name
		if ref.Kind == gitbackend.RefKindTag {
			label = "tag: " + ref.Name
		}
		labels[ref.Hash] = append(labels[ref.Hash], label)
	}

	headHash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return nil, err
	}
	if ok && headHash != "" {
		label := "HEAD"
		if headName != "" && headName != "HEAD" {
			label = "HEAD -> " + headName
		}
		labels[headHash] = append([]string{label}, labels[headHash]...)
	}
	return labels, nil
}

// ResolveHeads turns branch names, tags, "HEAD" or abbreviated hashes into
// full hashes of commits loaded in h. Names are tried in that order.
func (s *Service) ResolveHeads(h *History, names []string) ([]string, error) {
	if s.backend == nil {
		return nil, gitbackend.ErrNoRepository
	}
	refs, err := s.backend.ListRefs()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		hash, err := s.resolve(h, refs, name)
		if err != nil {
			return nil, err
		}
		if _, loaded := h.meta[hash]; !loaded {
			return nil, fmt.Errorf("%s (%s) is not loaded: %w", name, short(hash), ErrUnknownRef)
		}
		if !slices.Contains(out, hash) {
			out = append(out, hash)
		}
	}
	return out, nil
}

func (s *Service) resolve(h *History, refs []gitbackend.Ref, name string) (string, error) {
	if name == "HEAD" {
		hash, _, ok, err := s.backend.HeadState()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("HEAD: %w", ErrUnknownRef)
		}
		return hash, nil
	}
	for _, kind := range []gitbackend.RefKind{
		gitbackend.RefKindBranch,
		gitbackend.RefKindTag,
		gitbackend.RefKindRemoteBranch,
	} {
		for _, ref := range refs {
			if ref.Kind == kind && ref.Name == name {
				return ref.Hash, nil
			}
		}
	}
	if len(name) < minHashPrefix {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownRef)
	}
	var match string
	for _, c := range h.Commits {
		if !strings.HasPrefix(c.Hash, name) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s: %w", name, ErrAmbiguousRef)
		}
		match = c.Hash
	}
	if match == "" {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownRef)
	}
	return match, nil
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

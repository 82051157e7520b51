package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type native struct {
	path string
	repo *gitlib.Repository
}

// OpenNative returns a Backend reading the repository with go-git.
func OpenNative(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &native{path: root, repo: repo}, nil
}

func (n *native) RepoPath() string { return n.path }

func (n *native) HeadState() (string, string, bool, error) {
	ref, err := n.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	name := "HEAD"
	if ref.Name().IsBranch() {
		name = ref.Name().Short()
	}
	return ref.Hash().String(), name, true, nil
}

func (n *native) ListRefs() ([]Ref, error) {
	iter, err := n.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindBranch, Name: name.Short()})
		case name.IsRemote():
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindRemoteBranch, Name: name.Short()})
		case name.IsTag():
			hash := ref.Hash()
			if tag, err := n.repo.TagObject(hash); err == nil {
				if c, err := tag.Commit(); err == nil {
					hash = c.Hash
				}
			}
			refs = append(refs, Ref{Hash: hash.String(), Kind: RefKindTag, Name: name.Short()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// StartLogStream walks the history eagerly and streams it sorted by
// committer time, newest first.
func (n *native) StartLogStream(ctx context.Context, from []string) (LogStream, error) {
	var starts []plumbing.Hash
	for _, rev := range from {
		h, err := n.repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rev, err)
		}
		starts = append(starts, *h)
	}
	opts := []*gitlib.LogOptions{{All: true, Order: gitlib.LogOrderCommitterTime}}
	if len(starts) > 0 {
		opts = opts[:0]
		for _, h := range starts {
			opts = append(opts, &gitlib.LogOptions{From: h, Order: gitlib.LogOrderCommitterTime})
		}
	}

	seen := map[plumbing.Hash]bool{}
	var commits []*Commit
	for _, o := range opts {
		iter, err := n.repo.Log(o)
		if err != nil {
			return nil, fmt.Errorf("read commits: %w", err)
		}
		err = iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if seen[c.Hash] {
				return nil
			}
			seen[c.Hash] = true
			commits = append(commits, fromObject(c))
			return nil
		})
		iter.Close()
		if err != nil {
			return nil, fmt.Errorf("iterate commits: %w", err)
		}
	}
	slices.SortStableFunc(commits, func(a, b *Commit) int {
		return b.Committer.When.Compare(a.Committer.When)
	})
	return &sliceStream{commits: commits}, nil
}

func fromObject(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Subject:      subject,
	}
}

type sliceStream struct {
	commits []*Commit
	pos     int
}

func (s *sliceStream) Next() (*Commit, error) {
	if s.pos >= len(s.commits) {
		return nil, io.EOF
	}
	c := s.commits[s.pos]
	s.pos++
	return c, nil
}

func (s *sliceStream) Close() error {
	s.commits = nil
	return nil
}

package backend

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type testRepo struct {
	dir  string
	repo *gitlib.Repository
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return &testRepo{dir: dir, repo: repo, when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (r *testRepo) commit(t *testing.T, file, msg string) plumbing.Hash {
	t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, file), []byte(msg+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add(file); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.when = r.when.Add(time.Minute)
	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: r.when}
	h, err := wt.Commit(msg, &gitlib.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return h
}

func collect(t *testing.T, s LogStream) []*Commit {
	t.Helper()
	defer s.Close()
	var out []*Commit
	for {
		c, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, c)
	}
}

func TestNativeLogStream(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	first := r.commit(t, "a.txt", "first")
	second := r.commit(t, "a.txt", "second\n\nbody text")

	b, err := OpenNative(r.dir)
	if err != nil {
		t.Fatalf("OpenNative: %v", err)
	}
	if b.RepoPath() == "" {
		t.Fatal("RepoPath() is empty")
	}

	s, err := b.StartLogStream(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartLogStream: %v", err)
	}
	commits := collect(t, s)
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}
	if commits[0].Hash != second.String() || commits[1].Hash != first.String() {
		t.Fatalf("order = %s, %s, want %s, %s", commits[0].Hash, commits[1].Hash, second, first)
	}
	if len(commits[0].ParentHashes) != 1 || commits[0].ParentHashes[0] != first.String() {
		t.Fatalf("parents = %v, want [%s]", commits[0].ParentHashes, first)
	}
	if commits[0].Subject != "second" {
		t.Fatalf("subject = %q, want %q", commits[0].Subject, "second")
	}
	if commits[1].Author.Name != "Tester" {
		t.Fatalf("author = %+v", commits[1].Author)
	}
}

func TestNativeLogStreamFrom(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	first := r.commit(t, "a.txt", "first")
	r.commit(t, "a.txt", "second")

	b, err := OpenNative(r.dir)
	if err != nil {
		t.Fatalf("OpenNative: %v", err)
	}
	s, err := b.StartLogStream(context.Background(), []string{first.String()})
	if err != nil {
		t.Fatalf("StartLogStream: %v", err)
	}
	commits := collect(t, s)
	if len(commits) != 1 || commits[0].Hash != first.String() {
		t.Fatalf("commits = %+v, want only %s", commits, first)
	}

	if _, err := b.StartLogStream(context.Background(), []string{"no-such-branch"}); err == nil {
		t.Fatal("expected error for unknown revision")
	}
}

func TestNativeHeadStateAndRefs(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	b, err := OpenNative(r.dir)
	if err != nil {
		t.Fatalf("OpenNative: %v", err)
	}
	if _, _, ok, err := b.HeadState(); err != nil || ok {
		t.Fatalf("HeadState() on empty repo = ok %v, err %v", ok, err)
	}

	head := r.commit(t, "a.txt", "first")
	if _, err := r.repo.CreateTag("v1", head, &gitlib.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Tester", Email: "tester@example.com", When: r.when},
		Message: "release",
	}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	hash, name, ok, err := b.HeadState()
	if err != nil || !ok {
		t.Fatalf("HeadState() = ok %v, err %v", ok, err)
	}
	if hash != head.String() || name != "master" {
		t.Fatalf("HeadState() = %s %s, want %s master", hash, name, head)
	}

	refs, err := b.ListRefs()
	if err != nil {
		t.Fatalf("ListRefs: %v", err)
	}
	assertHasRef(t, refs, Ref{Hash: head.String(), Kind: RefKindBranch, Name: "master"})
	assertHasRef(t, refs, Ref{Hash: head.String(), Kind: RefKindTag, Name: "v1"})
}

func TestOpenNativeNotARepository(t *testing.T) {
	t.Parallel()

	if _, err := OpenNative(t.TempDir()); err == nil {
		t.Fatal("expected error outside a repository")
	}
}

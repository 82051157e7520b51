package git

import (
	"context"
	"errors"
	"io"

	gitbackend "github.com/thiagokokada/loggraph/internal/git/backend"
)

type fakeBackend struct {
	repoPath string

	headStateFunc      func() (hash string, headName string, ok bool, err error)
	listRefsFunc       func() ([]gitbackend.Ref, error)
	startLogStreamFunc func(from []string) (gitbackend.LogStream, error)

	lastFrom []string
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) StartLogStream(_ context.Context, from []string) (gitbackend.LogStream, error) {
	f.lastFrom = from
	if f.startLogStreamFunc != nil {
		return f.startLogStreamFunc(from)
	}
	return nil, errors.New("unexpected StartLogStream call")
}

func (f *fakeBackend) HeadState() (hash string, headName string, ok bool, err error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) ListRefs() ([]gitbackend.Ref, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListRefs call")
}

type fakeLogStream struct {
	commits []*gitbackend.Commit
	err     error // returned after the commits instead of io.EOF
	pos     int
	closed  bool
}

func (s *fakeLogStream) Next() (*gitbackend.Commit, error) {
	if s.pos >= len(s.commits) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.commits[s.pos]
	s.pos++
	return c, nil
}

func (s *fakeLogStream) Close() error {
	s.closed = true
	return nil
}

func streamOf(commits ...*gitbackend.Commit) func([]string) (gitbackend.LogStream, error) {
	return func([]string) (gitbackend.LogStream, error) {
		return &fakeLogStream{commits: commits}, nil
	}
}

func commit(hash, subject string, parents ...string) *gitbackend.Commit {
	return &gitbackend.Commit{Hash: hash, ParentHashes: parents, Subject: subject}
}

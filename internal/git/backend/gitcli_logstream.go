package backend

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// NUL-terminated records: hash, parents, author, committer and subject.
const gitLogFormat = "%H%n%P%n%an%n%ae%n%aI%n%cn%n%ce%n%cI%n%s%x00"

type gitLogStream struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	r      *bufio.Reader

	waitOnce sync.Once
	waitErr  error
}

func (g *gitCLI) StartLogStream(ctx context.Context, from []string) (LogStream, error) {
	if g == nil || g.path == "" {
		return nil, ErrNoRepository
	}
	args := []string{
		"--no-pager", "-C", g.path,
		"log", "--no-color", "--no-decorate", "--topo-order", "--no-patch",
		"--pretty=tformat:" + gitLogFormat,
	}
	if len(from) == 0 {
		args = append(args, "--all")
	} else {
		args = append(args, from...)
	}
	args = append(args, "--")

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, "git", args...)
	stream := &gitLogStream{cancel: cancel, cmd: cmd}
	cmd.Stderr = &stream.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("git log stdout: %w", err)
	}
	stream.stdout = stdout
	stream.r = bufio.NewReader(stdout)
	if err := cmd.Start(); err != nil {
		cancel()
		_ = stdout.Close()
		return nil, fmt.Errorf("git log start: %w", err)
	}
	return stream, nil
}

func (s *gitLogStream) Next() (*Commit, error) {
	rec, err := s.r.ReadBytes(0)
	if err == io.EOF && len(bytes.TrimSpace(rec)) == 0 {
		if waitErr := s.wait(); waitErr != nil {
			return nil, waitErr
		}
		return nil, io.EOF
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	rec = bytes.TrimSuffix(rec, []byte{0})
	// tformat separates records with a newline after the NUL.
	rec = bytes.TrimLeft(rec, "\r\n")
	if len(rec) == 0 {
		return nil, fmt.Errorf("unexpected empty git log record")
	}
	return parseGitLogRecord(rec)
}

func (s *gitLogStream) Close() error {
	s.cancel()
	_ = s.stdout.Close()
	err := s.wait()
	if err != nil && s.cmd.ProcessState != nil && !s.cmd.ProcessState.Success() {
		// Killed by cancel after an early close.
		return nil
	}
	return err
}

func (s *gitLogStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	if s.waitErr == nil {
		return nil
	}
	if s.stderr.Len() > 0 {
		return fmt.Errorf("git log: %v: %s", s.waitErr, strings.TrimSpace(s.stderr.String()))
	}
	return fmt.Errorf("git log: %w", s.waitErr)
}

func parseGitLogRecord(rec []byte) (*Commit, error) {
	parts := strings.SplitN(string(rec), "\n", 9)
	if len(parts) < 8 {
		return nil, fmt.Errorf("unexpected git log record: got %d lines", len(parts))
	}
	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return nil, fmt.Errorf("missing commit hash")
	}
	authorWhen, _ := time.Parse(time.RFC3339, strings.TrimSpace(parts[4]))
	committerWhen, _ := time.Parse(time.RFC3339, strings.TrimSpace(parts[7]))
	subject := ""
	if len(parts) > 8 {
		subject = strings.TrimRight(parts[8], "\r\n")
	}
	return &Commit{
		Hash:         hash,
		ParentHashes: strings.Fields(parts[1]),
		Author:       Signature{Name: parts[2], Email: parts[3], When: authorWhen},
		Committer:    Signature{Name: parts[5], Email: parts[6], When: committerWhen},
		Subject:      subject,
	}, nil
}

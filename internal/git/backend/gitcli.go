package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

type gitCLI struct {
	path string
}

// OpenCLI returns a Backend running the git executable in the work tree
// containing repoPath.
func OpenCLI(repoPath string) (Backend, error) {
	if err := ensureMinGitVersion(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	probe := &gitCLI{path: abs}
	root, err := probe.run([]string{"rev-parse", "--show-toplevel"}, false, "git rev-parse")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("open repository: git rev-parse returned empty root")
	}
	return &gitCLI{path: root}, nil
}

func (g *gitCLI) RepoPath() string {
	if g == nil {
		return ""
	}
	return g.path
}

// run executes git in the repository. With quietExit1, exit status 1 without
// stderr output counts as success, as returned by the -q lookups.
func (g *gitCLI) run(args []string, quietExit1 bool, what string) (string, error) {
	if g == nil || g.path == "" {
		return "", ErrNoRepository
	}
	cmd := exec.Command("git", append([]string{"-C", g.path}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if quietExit1 && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			return stdout.String(), nil
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s: %v: %s", what, err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%s: %w", what, err)
	}
	return stdout.String(), nil
}

// ErrNoRepository is returned when a backend is used without a repository.
var ErrNoRepository = errors.New("repository root not set")

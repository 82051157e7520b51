package backend

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Oldest git known to support every flag the CLI backend passes
// (strict ISO dates in log formats, show-ref --dereference).
var minGitVersion = gitVersion{major: 2, minor: 20, patch: 0}

type gitVersion struct {
	major int
	minor int
	patch int
}

func MinGitVersion() string {
	return minGitVersion.String()
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

// parseGitVersionOutput accepts "git version 2.44.0", vendor suffixes such as
// "2.39.3 (Apple Git-146)" or "2.39.3.windows.1", and bare numbers.
func parseGitVersionOutput(out string) (gitVersion, bool) {
	s := strings.TrimSpace(out)
	s = strings.TrimSpace(strings.TrimPrefix(s, "git version"))
	s = strings.TrimLeftFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end := strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); end >= 0 {
		s = s[:end]
	}
	parts := strings.Split(strings.Trim(s, "."), ".")
	if len(parts) < 2 {
		return gitVersion{}, false
	}
	var nums [3]int
	for i := 0; i < len(parts) && i < len(nums); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			if i < 2 {
				return gitVersion{}, false
			}
			break
		}
		nums[i] = n
	}
	return gitVersion{major: nums[0], minor: nums[1], patch: nums[2]}, true
}

func checkGitVersion(v gitVersion) error {
	if v.less(minGitVersion) {
		return fmt.Errorf("git %s is too old; loggraph requires git >= %s", v, minGitVersion)
	}
	return nil
}

func validateGitVersionOutput(out string) error {
	got, ok := parseGitVersionOutput(out)
	if !ok {
		return fmt.Errorf("unable to parse git version output: %q", strings.TrimSpace(out))
	}
	return checkGitVersion(got)
}

var (
	gitVersionOnce sync.Once
	gitVersionOut  string
	gitVersionErr  error
)

// GitVersion returns the output of "git --version", cached.
func GitVersion() (string, error) {
	gitVersionOnce.Do(func() {
		out, err := exec.Command("git", "--version").CombinedOutput()
		gitVersionOut = strings.TrimSpace(string(out))
		if err != nil {
			if gitVersionOut != "" {
				gitVersionErr = fmt.Errorf("git --version: %v: %s", err, gitVersionOut)
				return
			}
			gitVersionErr = fmt.Errorf("git --version: %w", err)
		}
	})
	return gitVersionOut, gitVersionErr
}

func ensureMinGitVersion() error {
	out, err := GitVersion()
	if err != nil {
		return err
	}
	return validateGitVersionOutput(out)
}

package backend

import "context"

// Backend abstracts access to the history of a repository.
//
// The git CLI implementation shells out to the git executable; the native one
// reads the object database with go-git. Both feed the same Service.
type Backend interface {
	RepoPath() string
	// StartLogStream lists the commits reachable from the given revisions,
	// children before parents. An empty list means every ref.
	StartLogStream(ctx context.Context, from []string) (LogStream, error)

	HeadState() (hash string, headName string, ok bool, err error)
	ListRefs() ([]Ref, error)
}

// LogStream yields commits until io.EOF.
type LogStream interface {
	Next() (*Commit, error)
	Close() error
}

// Kind selects a Backend implementation.
type Kind uint8

const (
	KindNative Kind = iota
	KindCLI
)

func (k Kind) String() string {
	if k == KindCLI {
		return "cli"
	}
	return "native"
}

// ParseKind accepts "native" and "cli".
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "native":
		return KindNative, true
	case "cli":
		return KindCLI, true
	default:
		return KindNative, false
	}
}

// Open returns the backend of the given kind for repoPath.
func Open(repoPath string, kind Kind) (Backend, error) {
	if kind == KindCLI {
		return OpenCLI(repoPath)
	}
	return OpenNative(repoPath)
}

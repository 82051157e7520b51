package backend

import "time"

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Subject      string
}

type RefKind uint8

const (
	RefKindBranch RefKind = iota
	RefKindRemoteBranch
	RefKindTag
)

func (k RefKind) String() string {
	switch k {
	case RefKindRemoteBranch:
		return "remote"
	case RefKindTag:
		return "tag"
	default:
		return "branch"
	}
}

type Ref struct {
	Hash string
	Kind RefKind
	Name string // short name: main, origin/main, v1
}

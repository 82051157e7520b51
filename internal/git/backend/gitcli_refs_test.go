package backend

import (
	"strings"
	"testing"
)

func TestParseShowRef(t *testing.T) {
	t.Parallel()

	const (
		commit1 = "1111111111111111111111111111111111111111"
		commit2 = "2222222222222222222222222222222222222222"
		tagObj  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	)

	in := strings.Join([]string{
		commit1 + " refs/heads/main",
		commit1 + " refs/remotes/origin/main",
		commit1 + " refs/remotes/origin/HEAD",
		commit2 + " refs/tags/v1.0",
		tagObj + " refs/tags/v2.0",
		commit1 + " refs/tags/v2.0^{}",
		commit2 + " refs/stash",
		"",
	}, "\n")

	got, err := parseShowRef(in)
	if err != nil {
		t.Fatalf("parseShowRef() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("unexpected ref count: got %d want 5", len(got))
	}

	assertHasRef(t, got, Ref{Hash: commit1, Kind: RefKindBranch, Name: "main"})
	assertHasRef(t, got, Ref{Hash: commit1, Kind: RefKindRemoteBranch, Name: "origin/main"})
	assertHasRef(t, got, Ref{Hash: commit1, Kind: RefKindRemoteBranch, Name: "origin/HEAD"})
	assertHasRef(t, got, Ref{Hash: commit2, Kind: RefKindTag, Name: "v1.0"})
	// v2.0 is annotated and resolves to the peeled commit.
	assertHasRef(t, got, Ref{Hash: commit1, Kind: RefKindTag, Name: "v2.0"})
}

func TestParseShowRef_InvalidLine(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"refs/heads/main\n", "abc refs/heads/a b\n"} {
		if _, err := parseShowRef(in); err == nil {
			t.Fatalf("parseShowRef(%q): expected error", in)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{in: "", want: KindNative, ok: true},
		{in: "native", want: KindNative, ok: true},
		{in: "cli", want: KindCLI, ok: true},
		{in: "libgit2", want: KindNative, ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseKind(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if KindCLI.String() != "cli" || KindNative.String() != "native" {
		t.Fatalf("unexpected Kind strings: %s, %s", KindCLI, KindNative)
	}
}

func assertHasRef(t *testing.T, refs []Ref, want Ref) {
	t.Helper()
	for _, got := range refs {
		if got == want {
			return
		}
	}
	t.Fatalf("missing ref: %+v (got=%+v)", want, refs)
}

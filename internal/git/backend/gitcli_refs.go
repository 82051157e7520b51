package backend

import (
	"bufio"
	"fmt"
	"strings"
)

func (g *gitCLI) HeadState() (hash string, headName string, ok bool, err error) {
	out, err := g.run([]string{"rev-parse", "-q", "--verify", "HEAD"}, true, "git rev-parse")
	if err != nil {
		return "", "", false, err
	}
	hash = strings.TrimSpace(out)
	if hash == "" {
		return "", "", false, nil
	}
	ref, err := g.run([]string{"symbolic-ref", "-q", "--short", "HEAD"}, true, "git symbolic-ref")
	if err != nil {
		return "", "", false, err
	}
	headName = strings.TrimSpace(ref)
	if headName == "" {
		headName = "HEAD"
	}
	return hash, headName, true, nil
}

func (g *gitCLI) ListRefs() ([]Ref, error) {
	out, err := g.run([]string{"--no-pager", "show-ref", "--dereference"}, true, "git show-ref")
	if err != nil {
		return nil, err
	}
	return parseShowRef(out)
}

var refNamespaces = []struct {
	prefix string
	kind   RefKind
}{
	{"refs/heads/", RefKindBranch},
	{"refs/remotes/", RefKindRemoteBranch},
	{"refs/tags/", RefKindTag},
}

// parseShowRef reads "git show-ref --dereference" output. Annotated tags
// resolve to the commit of their peeled "^{}" line.
func parseShowRef(out string) ([]Ref, error) {
	var refs []Ref
	tagIndex := map[string]int{}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		hash, name, found := strings.Cut(line, " ")
		name = strings.TrimSpace(name)
		if !found || hash == "" || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("unexpected show-ref output line: %q", sc.Text())
		}
		if base, peeled := strings.CutSuffix(name, "^{}"); peeled {
			if i, ok := tagIndex[base]; ok {
				refs[i].Hash = hash
			}
			continue
		}
		for _, ns := range refNamespaces {
			short, ok := strings.CutPrefix(name, ns.prefix)
			if !ok || short == "" {
				continue
			}
			if ns.kind == RefKindTag {
				tagIndex[name] = len(refs)
			}
			refs = append(refs, Ref{Hash: hash, Kind: ns.kind, Name: short})
			break
		}
	}
	return refs, sc.Err()
}

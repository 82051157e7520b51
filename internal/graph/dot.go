package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures ToDOT.
type DOTOptions struct {
	// ShortHashes trims labels to this many characters; 0 keeps full hashes.
	ShortHashes int
}

// ToDOT renders the visible graph in Graphviz DOT format. Collapsed fragments
// are drawn as dashed edges and EDGE_NODE occurrences are folded into their
// commit.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("\n")

	for _, r := range g.rows {
		n := r.Commit()
		attrs := fmt.Sprintf("label=%q", label(n.Hash, opts.ShortHashes))
		if n.Kind == EndCommitNode {
			attrs += ", peripheries=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Hash, attrs)
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	for _, r := range g.rows {
		for _, n := range r.nodes {
			for _, e := range n.down {
				from, to := n.Hash, e.Down.Hash
				key := [2]string{from, to}
				if from == to || seen[key] {
					continue
				}
				seen[key] = true
				if e.Kind == HideFragment {
					fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", from, to)
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
			}
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func label(hash string, n int) string {
	if n > 0 && len(hash) > n {
		return hash[:n]
	}
	return hash
}

// RenderDOT renders DOT text to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/loggraph/internal/config"
	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/layout"
	"github.com/thiagokokada/loggraph/internal/paint"
)

const (
	formatSVG      = "svg"      // row painter output
	formatDOT      = "dot"      // Graphviz source
	formatGraphviz = "graphviz" // DOT laid out by Graphviz, as SVG

	labelColumnWidth = 480.0
)

type renderOpts struct {
	format   string
	output   string
	labels   bool
	collapse []string
}

func newRenderCmd(opts *rootOpts) *cobra.Command {
	ro := renderOpts{format: formatSVG, labels: true}
	cmd := &cobra.Command{
		Use:   "render [ref...]",
		Short: "Render the commit graph as SVG or DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := r.filter(args); err != nil {
				return err
			}
			if err := r.collapse(ro.collapse); err != nil {
				return err
			}

			var out []byte
			switch ro.format {
			case formatSVG:
				out = r.renderSVG(opts.cfg, ro.labels)
			case formatDOT, formatGraphviz:
				var dot string
				r.sess.View(func(g *graph.Graph, _ *layout.Layout) {
					dot = graph.ToDOT(g, graph.DOTOptions{ShortHashes: 10})
				})
				out = []byte(dot)
				if ro.format == formatGraphviz {
					if out, err = graph.RenderDOT(cmd.Context(), dot); err != nil {
						return err
					}
				}
			default:
				return fmt.Errorf("unknown format %q (want svg, dot or graphviz)", ro.format)
			}

			if ro.output == "" || ro.output == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			return os.WriteFile(ro.output, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&ro.format, "format", "f", ro.format, "output format: svg, dot or graphviz")
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&ro.labels, "labels", ro.labels, "write commit subjects next to the graph (svg)")
	cmd.Flags().StringSliceVar(&ro.collapse, "collapse", nil, "collapse the fragment around these commits first")
	return cmd
}

// collapse hides the fragment around each named commit. Commits without a
// fragment are skipped.
func (r *repoGraph) collapse(names []string) error {
	if len(names) == 0 {
		return nil
	}
	hashes, err := r.svc.ResolveHeads(r.history, names)
	if err != nil {
		return err
	}
	for _, h := range hashes {
		f, err := r.sess.FragmentOf(h)
		if err != nil {
			return err
		}
		if f == nil {
			continue
		}
		if err := r.sess.Hide(f); err != nil {
			return err
		}
	}
	return nil
}

func newPainter(cfg config.Config) *paint.Painter {
	p := paint.NewPainter(cfg.Paint.RowHeight)
	if len(cfg.Paint.Palette) > 0 {
		p.Palette = cfg.Paint.Palette
	}
	if cfg.Paint.SelectionColor != "" {
		p.SelectionColor = cfg.Paint.SelectionColor
	}
	return p
}

func (r *repoGraph) renderSVG(cfg config.Config, labels bool) []byte {
	p := newPainter(cfg)
	var out []byte
	r.sess.View(func(g *graph.Graph, l *layout.Layout) {
		var opts []paint.SVGOption
		if labels {
			opts = append(opts, paint.WithLabels(labelColumnWidth, func(row int) string {
				n, err := g.NodeAt(row)
				if err != nil {
					return ""
				}
				return shortHash(n.Hash) + " " + r.describe(n.Hash)
			}))
		}
		out = paint.RenderSVG(l, p, opts...)
	})
	return out
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/layout"
)

func newSnapshotCmd(opts *rootOpts) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "snapshot [ref...]",
		Short: "Print the text snapshot of the commit graph",
		Long: `Print one line per node occurrence of the visible graph:

  hash|up-edges|down-edges|KIND|branch|row

With refs, only their history is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := r.filter(args); err != nil {
				return err
			}
			if check {
				var verr error
				r.sess.View(func(g *graph.Graph, _ *layout.Layout) { verr = g.Validate() })
				if verr != nil {
					return verr
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.sess.Snapshot())
			return err
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "validate graph invariants before printing")
	return cmd
}

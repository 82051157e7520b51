package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/loggraph/internal/graph"
	"github.com/thiagokokada/loggraph/internal/session"
)

func newFragmentCmd(opts *rootOpts) *cobra.Command {
	var (
		showDiff bool
		color    bool
		rows     bool
	)
	cmd := &cobra.Command{
		Use:   "fragment <commit> [ref...]",
		Short: "Collapse the linear run of commits around a commit",
		Long: `Find the maximal run of single-parent, single-child commits around <commit>,
collapse it into one edge and report what was hidden. With refs, the graph is
first restricted to their history.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := r.filter(args[1:]); err != nil {
				return err
			}
			heads, err := r.svc.ResolveHeads(r.history, args[:1])
			if err != nil {
				return err
			}
			f, err := r.sess.FragmentOf(heads[0])
			if errors.Is(err, graph.ErrNodeNotFound) {
				return fmt.Errorf("%s is not visible: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("%s: %w", args[0], session.ErrNoFragment)
			}

			before := r.sess.Snapshot()
			if err := r.sess.Hide(f); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "collapsed %d commits between %s and %s\n",
				len(f.Intermediate), shortHash(f.Up.Hash), shortHash(f.Down.Hash))
			for _, n := range f.Intermediate {
				fmt.Fprintf(w, "  %s %s\n", shortHash(n.Hash), r.describe(n.Hash))
			}
			if rows {
				fmt.Fprintln(w)
				if err := r.writeRows(w); err != nil {
					return err
				}
			}
			if !showDiff {
				return nil
			}
			diff, err := graph.DiffSnapshots(before, r.sess.Snapshot())
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			return writeDiff(w, diff, color)
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print the snapshot diff caused by the collapse")
	cmd.Flags().BoolVar(&color, "color", false, "color the diff for terminals")
	cmd.Flags().BoolVar(&rows, "rows", false, "print the collapsed log")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchesCmd(opts *rootOpts) *cobra.Command {
	var snapshot bool
	cmd := &cobra.Command{
		Use:   "branches <ref>...",
		Short: "Show only the history of the given branches",
		Long: `Restrict the graph to the commits reachable from the given refs. Refs are
branch names, tags, remote branches, HEAD or abbreviated commit hashes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := r.filter(args); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if snapshot {
				_, err := fmt.Fprintln(w, r.sess.Snapshot())
				return err
			}
			return r.writeRows(w)
		},
	}
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "print the text snapshot instead of the log")
	return cmd
}

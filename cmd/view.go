package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thiagokokada/loggraph/internal/gui"
)

func newViewCmd(opts *rootOpts) *cobra.Command {
	var (
		theme   string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "view [ref...]",
		Short: "Open the interactive graph viewer",
		Long: `Open a window with the commit graph. Click a commit or an edge to collapse
the linear run around it, click a dashed edge to expand it again. The branch
entry restricts the graph to the history of the given refs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("theme") {
				cfg.View.Theme = theme
			}
			if noWatch {
				cfg.View.AutoReload = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return gui.Run(gui.RunConfig{
				RepoPath: opts.repo,
				Config:   cfg,
				Refs:     args,
			})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "auto", "color mode: auto, light or dark")
	cmd.Flags().BoolVar(&noWatch, "nowatch", false, "disable automatic reload when the repository changes")
	return cmd
}

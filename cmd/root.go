// Package cmd implements the loggraph command line.
package cmd

import (
	"context"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/loggraph/internal/buildinfo"
	"github.com/thiagokokada/loggraph/internal/config"
)

// rootOpts holds the persistent flags and the configuration they override.
type rootOpts struct {
	repo       string
	configPath string
	backend    string
	limit      int
	longEdge   int
	verbose    bool

	cfg config.Config
}

// Execute runs the loggraph CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "loggraph",
		Short:        "Draw and collapse git commit graphs",
		Long:         `loggraph lays out the commit graph of a repository, collapses linear runs of commits into single edges and filters the graph down to the history of selected branches.`,
		Version:      buildinfo.VersionWithTags(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}
	root.SetVersionTemplate("loggraph {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.repo, "repo", "C", ".", "path inside the repository")
	pf.StringVar(&opts.configPath, "config", "", "configuration file (default "+config.DefaultPath()+")")
	pf.StringVar(&opts.backend, "backend", "", "history backend: native or cli")
	pf.IntVarP(&opts.limit, "limit", "n", 0, "maximum number of commits to load, -1 for no limit")
	pf.IntVar(&opts.longEdge, "long-edge-size", 0, "draw edges spanning at least this many rows as arrows, 0 to disable")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSnapshotCmd(opts))
	root.AddCommand(newFragmentCmd(opts))
	root.AddCommand(newBranchesCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newViewCmd(opts))
	return root
}

// setup installs the logger and merges flags over the configuration file.
func (o *rootOpts) setup(cmd *cobra.Command) error {
	level := charmlog.InfoLevel
	if o.verbose {
		level = charmlog.DebugLevel
	}
	slog.SetDefault(slog.New(newLogger(cmd.ErrOrStderr(), level)))

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Graph.Limit = o.limit
	}
	if flags.Changed("backend") {
		cfg.Graph.Backend = o.backend
	}
	if flags.Changed("long-edge-size") {
		cfg.Graph.LongEdgeSize = o.longEdge
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	slog.Debug("configuration loaded",
		slog.String("backend", cfg.Graph.Backend),
		slog.Int("limit", cfg.Graph.Limit),
		slog.Int("long_edge_size", cfg.Graph.LongEdgeSize),
	)
	return nil
}

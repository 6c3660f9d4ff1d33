package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"keyed-codec/internal/analyze"
	"keyed-codec/internal/config"
	"keyed-codec/internal/diagnostic"
	"keyed-codec/internal/lint"
)

// RootOptions are the flags shared by every command.
type RootOptions struct {
	ConfigFile string
	Dir        string
	Verbose    bool

	logger zerolog.Logger
}

// NewRootCmd builds the keyed-lint command tree.
func NewRootCmd() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "keyed-lint",
		Short:        "check keyed struct tags",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.Verbose {
				level = zerolog.DebugLevel
			}

			opts.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
				Level(level).
				With().Timestamp().Logger()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default "+config.DefaultFileName+" if present)")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "directory package patterns are resolved in")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(NewCheckCmd(opts), NewPathsCmd(opts))

	return cmd
}

// load reads the configuration and resolves the tagged structs of the
// packages matching patterns.
func (o *RootOptions) load(patterns []string) ([]lint.Struct, diagnostic.Diagnostics, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}

	o.logger.Debug().Str("config", o.ConfigFile).Int("transforms", len(cfg.Transforms)).Msg("loaded config")

	a := analyze.NewAnalyzer()
	a.Dir = o.Dir

	graph, err := a.LoadPackages(patterns...)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}

	o.logger.Debug().Strs("patterns", patterns).Int("packages", len(graph.Packages)).Msg("loaded packages")

	structs, diags := lint.New(cfg, o.logger).Check(graph)

	return structs, diags, nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errLintFailed = errors.New("lint found errors")

// NewCheckCmd reports every diagnostic and fails when any is an error.
func NewCheckCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check PATTERN...",
		Short:   "check keyed struct tags of the given packages",
		Args:    cobra.MinimumNArgs(1),
		Example: `keyed-lint check --config .keyed.yaml ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, diags, err := opts.load(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			fmt.Fprintf(out, "%d errors, %d warnings\n", len(diags.Errors), len(diags.Warnings))

			if diags.HasErrors() {
				return errLintFailed
			}

			return nil
		},
	}
}

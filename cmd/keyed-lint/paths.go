package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewPathsCmd prints the resolved key path of every tagged field.
func NewPathsCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "paths PATTERN...",
		Short:   "print the key paths of keyed struct fields",
		Args:    cobra.MinimumNArgs(1),
		Example: `keyed-lint paths keyed-codec/examples/geo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			structs, _, err := opts.load(args)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			for _, s := range structs {
				fmt.Fprintln(w, s.ID)

				for _, f := range s.Fields {
					path := f.Path
					if f.Flatten {
						path = "(flattened)"
					}

					line := fmt.Sprintf("  %s\t%s\t%s\t%s", path, f.GoPath, f.Kind, f.Type)
					if f.Transform != "" {
						line += "\ttransform=" + f.Transform
					}

					fmt.Fprintln(w, line)
				}
			}

			return w.Flush()
		},
	}
}

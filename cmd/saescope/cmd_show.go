package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <dim>",
		Short: "Show the feature statistics of one dimension",
		Long: `Print every column of the feature table for one latent dimension.

The SQLite output is read when present, otherwise the parquet output.

Examples:
  saescope show 42 --output-dir out/
  saescope show 42 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			dim, err := strconv.Atoi(args[0])
			if err != nil || dim < 0 {
				return fmt.Errorf("invalid dimension %q: must be a non-negative integer", args[0])
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := outputDir(cmd, cfg)
			if err != nil {
				return err
			}

			rows, source, err := loadRows(cmd.Context(), dir)
			if err != nil {
				return err
			}
			row, err := findRow(rows, dim)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("dimension %d is not in %s", dim, source)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, rowColumns(row))
			}

			fmt.Fprintf(out, "Dimension %d: %s\n\n", row.Dim, row.Category)
			printRow(out, row)
			return nil
		},
	}

	cmd.Flags().String("output-dir", "", "Directory holding the feature table")

	return cmd
}

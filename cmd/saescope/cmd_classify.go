package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/saescope/internal/aggregate"
	"github.com/nvandessel/saescope/internal/classify"
	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/runner"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify a single viz file",
		Long: `Profile one <dim>.json viz file in isolation and report its category,
the rule that assigned it and the full statistics row. Nothing is written.

Examples:
  saescope classify viz/42.json
  saescope classify viz/42.json.gz --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rangeKey := cfg.RangeKey
			if cmd.Flags().Changed("range-key") {
				rangeKey, _ = cmd.Flags().GetString("range-key")
			}
			logger := newLogger(cmd, cfg)

			dim, stats, err := runner.ReadFile(cmd.Context(), args[0], rangeKey, logger)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			summary := aggregate.Dimension(dim, stats)
			decision := classify.Explain(summary)
			row := models.FeatureRow{DimensionSummary: summary, Category: decision.Category}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, map[string]any{
					"dim":      dim,
					"category": decision.Category,
					"rule":     decision.Rule,
					"columns":  rowColumns(row),
				})
			}

			fmt.Fprintf(out, "Dimension %d: %s (rule: %s)\n\n", dim, decision.Category, decision.Rule)
			printRow(out, row)
			return nil
		},
	}

	cmd.Flags().String("range-key", "", "Activation range read from the file")

	return cmd
}

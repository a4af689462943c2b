package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/saescope/internal/models"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count dimensions per category",
		Long: `Print how many latent dimensions fall in each category.

With --category, the dimensions in that category are listed as well.

Examples:
  saescope summary --output-dir out/
  saescope summary --category periodic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			category, _ := cmd.Flags().GetString("category")

			if category != "" && !models.Category(category).Valid() {
				return fmt.Errorf("unknown category %q", category)
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
			counts := models.CountCategories(rows)

			var dims []int
			if category != "" {
				dims = []int{}
				for _, r := range rows {
					if r.Category == models.Category(category) {
						dims = append(dims, r.Dim)
					}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				result := map[string]any{
					"source": source,
					"total":  len(rows),
					"counts": counts,
				}
				if dims != nil {
					result["dims"] = dims
				}
				return writeJSON(out, result)
			}

			fmt.Fprintf(out, "Feature table: %s\n\n", source)
			printCounts(out, counts)
			if dims != nil {
				fmt.Fprintf(out, "\n%s dimensions: %v\n", category, dims)
			}
			return nil
		},
	}

	cmd.Flags().String("output-dir", "", "Directory holding the feature table")
	cmd.Flags().String("category", "", "List the dimensions of this category")

	return cmd
}

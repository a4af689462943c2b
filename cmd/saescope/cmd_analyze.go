package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/saescope/internal/config"
	"github.com/nvandessel/saescope/internal/logging"
	"github.com/nvandessel/saescope/internal/runner"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Profile and classify every latent dimension",
		Long: `Read one viz file per dimension from the input directory, compute
per-dimension firing statistics and write the classified feature table.

Flags override the config file, which overrides built-in defaults.

Examples:
  saescope analyze --input-dir viz/ --output-dir out/ --hidden-dim 4096
  saescope analyze --hidden-dim 4096 --format parquet,csv,sqlite --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			noProgress, _ := cmd.Flags().GetBool("no-progress")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyAnalyzeFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(cmd, cfg)
			decisions := logging.NewDecisionLogger(cfg.OutputDir, cfg.Logging.Level)
			defer decisions.Close()

			var progressOut io.Writer
			if !noProgress && !jsonOut {
				progressOut = cmd.ErrOrStderr()
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := runner.Run(ctx, runner.Config{
				HiddenDim: cfg.HiddenDim,
				InputDir:  cfg.InputDir,
				OutputDir: cfg.OutputDir,
				RangeKey:  cfg.RangeKey,
				Formats:   cfg.Formats,
				Workers:   cfg.Workers,
				Logger:    logger,
				Decisions: decisions,
				Progress:  progressOut,
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, res)
			}

			fmt.Fprintf(out, "Analyzed %d dimensions from %d files (%d skipped, %d sequences)\n\n",
				len(res.Rows), res.FilesRead, res.FilesSkipped, res.Sequences)
			printCounts(out, res.Counts)
			if len(res.Outputs) > 0 {
				fmt.Fprintln(out)
				for _, p := range res.Outputs {
					fmt.Fprintf(out, "Wrote %s\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("input-dir", "", "Directory of <dim>.json viz files")
	cmd.Flags().String("output-dir", "", "Directory for the feature table")
	cmd.Flags().Int("hidden-dim", 0, "Number of latent dimensions")
	cmd.Flags().StringSlice("format", nil, "Output formats: parquet, csv, sqlite")
	cmd.Flags().Int("workers", 0, "Parallel dimension aggregation workers")
	cmd.Flags().String("range-key", "", "Activation range read from each viz file")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

// applyAnalyzeFlags copies explicitly set flags over the loaded config.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.SaescopeConfig) error {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir, _ = flags.GetString("input-dir")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("hidden-dim") {
		cfg.HiddenDim, _ = flags.GetInt("hidden-dim")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("range-key") {
		cfg.RangeKey, _ = flags.GetString("range-key")
	}
	if flags.Changed("format") {
		values, _ := flags.GetStringSlice("format")
		formats, err := config.ParseFormats(strings.Join(values, ","))
		if err != nil {
			return err
		}
		cfg.Formats = formats
	}
	return nil
}

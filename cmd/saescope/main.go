package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/saescope/internal/config"
	"github.com/nvandessel/saescope/internal/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "saescope",
		Short: "Firing-pattern analysis for sparse autoencoder latents",
		Long: `saescope profiles how each latent dimension of a sparse autoencoder
fires along protein sequences.

It reads one visualization file per dimension, extracts contiguous runs of
positive activation, summarizes them per dimension and assigns every
dimension a category such as point, periodic, motif or whole.`,
		SilenceUsage: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		newVersionCmd(),
		newAnalyzeCmd(),
		newShowCmd(),
		newSummaryCmd(),
		newClassifyCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("json", false, "Output as JSON")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.saescope/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace, warn, error")
}

// loadConfig loads the config named by --config (or the default location)
// and applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.SaescopeConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		if !logging.ValidLevel(level) {
			return nil, fmt.Errorf("invalid log level: %s", level)
		}
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// configPath returns the file config set writes to.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

func newLogger(cmd *cobra.Command, cfg *config.SaescopeConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// outputDir returns --output-dir when given, else the configured directory.
func outputDir(cmd *cobra.Command, cfg *config.SaescopeConfig) (string, error) {
	dir := cfg.OutputDir
	if cmd.Flags().Changed("output-dir") {
		dir, _ = cmd.Flags().GetString("output-dir")
	}
	if dir == "" {
		return "", fmt.Errorf("--output-dir is required (or set output_dir in the config)")
	}
	return dir, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/pymaceuticals-cli/internal/config"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Input overrides (take precedence over config)
	flagDataDir  string
	flagMetadata string
	flagResults  string
	flagSheet    string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Shared logger; replaced once config is loaded.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pymaceuticals",
	Short: "Pymaceuticals CLI: tumor study cleaning, statistics, outliers and charts",
	Long: `Pymaceuticals merges a mouse metadata table with per-timepoint tumor measurements,
drops mice with duplicate observations, summarizes tumor volume per drug regimen,
flags final-volume outliers with the IQR rule and renders the standard study charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.pymaceuticals/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the input tables (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagMetadata, "metadata", "", "mouse metadata table (.csv/.tsv/.xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagResults, "results", "", "study results table (.csv/.tsv/.xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}

func loadConfig() {
	cfg = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here: commands that need config report it via requireConfig.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("metadata") && flagMetadata != "" {
		cfg.MetadataFile = flagMetadata
	}
	if f.Changed("results") && flagResults != "" {
		cfg.ResultsFile = flagResults
	}
	if f.Changed("sheet") {
		cfg.SheetName = flagSheet
	}

	l, err := logging.New(debug, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

func requireConfig() error {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
	}
	return cfg.Validate()
}

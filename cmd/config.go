package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/pymaceuticals-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "metadata_file: %s\n", cfg.MetadataFile)
		fmt.Fprintf(out, "results_file: %s\n", cfg.ResultsFile)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		if cfg.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		}
		fmt.Fprintf(out, "exclude_ids: %s\n", strings.Join(cfg.ExcludeIDs, ","))
		fmt.Fprintf(out, "regimens: %s\n", strings.Join(cfg.Regimens, ","))
		fmt.Fprintf(out, "line_subject: %s\n", cfg.LineSubject)
		fmt.Fprintf(out, "scatter_regimen: %s\n", cfg.ScatterRegimen)
		fmt.Fprintf(out, "outlier_scope: %s\n", cfg.OutlierScope)
		fmt.Fprintf(out, "iqr_multiplier: %.3f\n", cfg.IQRMultiplier)
		fmt.Fprintf(out, "parallel_groups: %d\n", cfg.ParallelGroups)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "metadata_file":
			cfg.MetadataFile = val
		case "results_file":
			cfg.ResultsFile = val
		case "sheet_name":
			cfg.SheetName = val
		case "output_dir":
			cfg.OutputDir = val
		case "exclude_ids":
			cfg.ExcludeIDs = splitList(val)
		case "regimens":
			cfg.Regimens = splitList(val)
		case "line_subject":
			cfg.LineSubject = val
		case "scatter_regimen":
			cfg.ScatterRegimen = val
		case "outlier_scope":
			switch strings.ToLower(val) {
			case "regimen", "population":
				cfg.OutlierScope = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid outlier_scope: %s (use regimen or population)", val)
			}
		case "iqr_multiplier":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for iqr_multiplier: %v", val)
			}
			cfg.IQRMultiplier = f
		case "parallel_groups", "chart_width", "chart_height":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			switch key {
			case "parallel_groups":
				cfg.ParallelGroups = i
			case "chart_width":
				cfg.ChartWidth = i
			default:
				cfg.ChartHeight = i
			}
		case "log_format":
			cfg.LogFormat = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/export"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/render"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFlags      analysisFlags
	anaOutputPath string
	anaFormat     string
	anaXLSXPath   string
	anaChartsDir  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Clean the study data and print summary statistics, outliers and regression",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(anaFormat))
		switch format {
		case "", "md", "markdown":
			format = "markdown"
		case "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|json)", anaFormat)
		}

		rep, err := runAnalysis(cmd, &anaFlags)
		if err != nil {
			return err
		}
		out, err := renderReport(rep, format)
		if err != nil {
			return err
		}

		// Decide where to write: --output path or stdout
		if anaOutputPath != "" {
			p := utils.ResolveUnder(cfg.OutputDir, anaOutputPath)
			if err := utils.SafeWriteFile(p, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", p)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}
		if anaXLSXPath != "" {
			p := utils.ResolveUnder(cfg.OutputDir, anaXLSXPath)
			if err := utils.EnsureDir(filepath.Dir(p)); err != nil {
				return err
			}
			if err := export.WriteWorkbook(rep, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", p)
		}
		if anaChartsDir != "" {
			dir := utils.ResolveUnder(cfg.OutputDir, anaChartsDir)
			written, err := render.RenderAll(rep, dir, chartOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Rendered %d charts to %s\n", len(written), dir)
		}
		return nil
	},
}

func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		return utils.PrettyJSON(rep)
	}
	return []byte(rep.Markdown()), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (relative to output_dir)")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "report format: markdown|json")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "also export the report tables to this .xlsx workbook")
	analyzeCmd.Flags().StringVar(&anaChartsDir, "charts-dir", "", "also render PNG charts into this directory")
}

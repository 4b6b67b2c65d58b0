package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/render"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	plotFlags  analysisFlags
	plotOutDir string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render bar, pie, box, line and scatter charts as PNG files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := runAnalysis(cmd, &plotFlags)
		if err != nil {
			return err
		}
		dir := plotOutDir
		if dir == "" {
			dir = "charts"
		}
		dir = utils.ResolveUnder(cfg.OutputDir, dir)
		written, err := render.RenderAll(rep, dir, chartOptions())
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", filepath.Base(p))
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d charts to %s\n", len(written), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotFlags.register(plotCmd)
	plotCmd.Flags().StringVarP(&plotOutDir, "out-dir", "o", "", "directory for PNG files (default \"charts\" under output_dir)")
}

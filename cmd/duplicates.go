package cmd

import (
	"fmt"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var dupJSON bool

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List mice with duplicate (mouse id, timepoint) observations and all their rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		a := analysis.NewAnalyzer(logger, analysis.Options{ExcludeIDs: cfg.ExcludeIDs})
		combined, clean, dups := a.Clean(ds)
		rep := &analysis.Report{
			Observations:  len(combined),
			CleanRows:     len(clean),
			MiceTotal:     analysis.CountDistinct(combined, analysis.MouseID),
			MiceClean:     analysis.CountDistinct(clean, analysis.MouseID),
			DuplicateMice: dups,
			DuplicateRows: analysis.Select(combined, analysis.MouseID, dups),
		}
		if dupJSON {
			out, err := renderReport(rep, "json")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), rep.DuplicatesMarkdown())
		fmt.Fprintf(cmd.OutOrStdout(), "\nMice: %d before cleaning, %d after\n", rep.MiceTotal, rep.MiceClean)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)
	duplicatesCmd.Flags().BoolVar(&dupJSON, "json", false, "print JSON instead of a table")
}

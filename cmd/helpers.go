package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/render"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// analysisFlags are shared by every command that runs the pipeline.
type analysisFlags struct {
	exclude        []string
	regimens       []string
	subject        string
	scatterRegimen string
	scope          string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "additional mouse ids to drop (comma-separated, repeatable)")
	cmd.Flags().StringSliceVar(&f.regimens, "regimens", nil, "regimens for the outlier/box plot section, in plot order")
	cmd.Flags().StringVar(&f.subject, "subject", "", "mouse id for the tumor volume timeline")
	cmd.Flags().StringVar(&f.scatterRegimen, "scatter-regimen", "", "regimen for weight vs. tumor volume regression")
	cmd.Flags().StringVar(&f.scope, "outlier-scope", "", "quartile population for outliers: regimen|population")
}

// options merges config with any flags set on the command.
func (f analysisFlags) options(changed func(string) bool) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.ExcludeIDs = cfg.ExcludeIDs
	opt.Regimens = cfg.Regimens
	opt.LineSubject = cfg.LineSubject
	opt.ScatterRegimen = cfg.ScatterRegimen
	opt.OutlierScope = analysis.Scope(cfg.OutlierScope)
	opt.IQRMultiplier = cfg.IQRMultiplier
	opt.Workers = cfg.ParallelGroups
	if changed("exclude") {
		opt.ExcludeIDs = append(append([]string{}, opt.ExcludeIDs...), f.exclude...)
	}
	if changed("regimens") && len(f.regimens) > 0 {
		opt.Regimens = f.regimens
	}
	if changed("subject") {
		opt.LineSubject = f.subject
	}
	if changed("scatter-regimen") {
		opt.ScatterRegimen = f.scatterRegimen
	}
	if changed("outlier-scope") {
		opt.OutlierScope = analysis.Scope(strings.ToLower(strings.TrimSpace(f.scope)))
	}
	return opt
}

func validateScope(s analysis.Scope) error {
	switch s {
	case analysis.ScopeRegimen, analysis.ScopePopulation:
		return nil
	default:
		return fmt.Errorf("unsupported --outlier-scope: %s (use regimen|population)", s)
	}
}

// loadDataset reads both input tables named by the effective config.
func loadDataset() (*study.Dataset, error) {
	meta, results := cfg.MetadataPath(), cfg.ResultsPath()
	logger.Debug("loading study tables", zap.String("metadata", meta), zap.String("results", results))
	ds, err := study.Load(meta, results, study.ReadOptions{SheetName: cfg.SheetName})
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded study tables", zap.Int("mice", len(ds.Mice)), zap.Int("observations", len(ds.Observations)))
	return ds, nil
}

// runAnalysis loads the inputs and runs the pipeline with the command's flags.
func runAnalysis(cmd *cobra.Command, f *analysisFlags) (*analysis.Report, error) {
	if err := requireConfig(); err != nil {
		return nil, err
	}
	opt := f.options(cmd.Flags().Changed)
	if err := validateScope(opt.OutlierScope); err != nil {
		return nil, err
	}
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(logger, opt).Run(cmd.Context(), ds)
}

func chartOptions() render.Options {
	return render.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
}

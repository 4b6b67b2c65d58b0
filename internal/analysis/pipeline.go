package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope selects the population used for outlier quartiles.
type Scope string

const (
	// ScopeRegimen computes quartiles from each regimen's own final volumes.
	ScopeRegimen Scope = "regimen"
	// ScopePopulation computes quartiles once from every final volume in the
	// study and applies the same fences to each regimen.
	ScopePopulation Scope = "population"
)

// Options controls the study analysis.
type Options struct {
	// ExcludeIDs are dropped in addition to mice with duplicate observations.
	ExcludeIDs []string
	// Regimens analyzed for final-volume outliers and the box plot, in plot order.
	Regimens []string
	// LineSubject is the mouse whose tumor volume is traced over time.
	LineSubject string
	// ScatterRegimen is the regimen used for weight vs. volume regression.
	ScatterRegimen string
	OutlierScope   Scope
	IQRMultiplier  float64
	// Workers bounds concurrent group computations; <= 1 runs sequentially.
	Workers int
}

// DefaultOptions returns the settings of the reference study.
func DefaultOptions() Options {
	return Options{
		Regimens:       []string{"Capomulin", "Ramicane", "Infubinol", "Ceftamin"},
		LineSubject:    "l509",
		ScatterRegimen: "Capomulin",
		OutlierScope:   ScopeRegimen,
		IQRMultiplier:  DefaultIQRMultiplier,
		Workers:        4,
	}
}

// Analyzer runs the cleaning, statistics and outlier pipeline over a dataset.
type Analyzer struct {
	logger *zap.Logger
	opt    Options
}

// NewAnalyzer returns an Analyzer. A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger, opt Options) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opt.IQRMultiplier <= 0 {
		opt.IQRMultiplier = DefaultIQRMultiplier
	}
	if opt.OutlierScope == "" {
		opt.OutlierScope = ScopeRegimen
	}
	return &Analyzer{logger: logger, opt: opt}
}

// Clean merges the two tables, finds mice with duplicate (id, timepoint)
// observations and drops every row of those mice plus any configured exclusions.
func (a *Analyzer) Clean(ds *study.Dataset) (combined, clean []study.CombinedRow, duplicates []string) {
	combined = Merge(ds.Observations, ds.Mice)
	duplicates = FindDuplicateKeys(combined, ObservationKey, MouseID)
	drop := append(append([]string{}, duplicates...), a.opt.ExcludeIDs...)
	clean = Exclude(combined, MouseID, drop)
	a.logger.Debug("cleaned dataset",
		zap.Int("rows", len(combined)),
		zap.Int("clean_rows", len(clean)),
		zap.Strings("duplicate_mice", duplicates),
		zap.Strings("excluded", a.opt.ExcludeIDs))
	return combined, clean, duplicates
}

// Run executes the full analysis.
func (a *Analyzer) Run(ctx context.Context, ds *study.Dataset) (*Report, error) {
	start := time.Now()
	rep := &Report{
		RunID:          uuid.NewString(),
		GeneratedAt:    start.UTC(),
		MetadataSource: ds.MiceSource,
		ResultsSource:  ds.ResultsSource,
		OutlierScope:   a.opt.OutlierScope,
		IQRMultiplier:  a.opt.IQRMultiplier,
	}
	combined, clean, dups := a.Clean(ds)
	rep.Observations = len(combined)
	rep.MiceTotal = CountDistinct(combined, MouseID)
	rep.MiceClean = CountDistinct(clean, MouseID)
	rep.DuplicateMice = dups
	rep.DuplicateRows = Select(combined, MouseID, dups)
	rep.Excluded = a.opt.ExcludeIDs
	rep.CleanRows = len(clean)
	for _, r := range clean {
		if r.Metadata == nil {
			rep.Unmatched++
		}
	}
	if rep.Unmatched > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d observation rows have no mouse metadata", rep.Unmatched))
	}
	withMeta := selectMatched(clean)

	summary, err := SummarizeContext(ctx, withMeta, regimenOf, volumeOf, a.opt.Workers)
	if err != nil {
		return nil, fmt.Errorf("summary statistics: %w", err)
	}
	rep.Summary = summary
	a.logger.Debug("summary statistics", zap.Int("groups", len(summary)))

	rep.RegimenCounts = CountBy(withMeta, regimenOf)
	rep.SexCounts = CountBy(withMeta, func(r study.CombinedRow) string { return string(r.Sex()) })

	final := MergeFinal(clean, LastTimepointPerEntity(clean, MouseID, func(r study.CombinedRow) int { return r.Timepoint }))
	outliers, err := a.finalVolumeOutliers(final)
	if err != nil {
		return nil, fmt.Errorf("outliers: %w", err)
	}
	rep.Outliers = outliers

	if a.opt.LineSubject != "" {
		if tl := Timeline(clean, a.opt.LineSubject); tl != nil {
			rep.Timeline = tl
		} else {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("line subject %q not found", a.opt.LineSubject))
		}
	}
	if a.opt.ScatterRegimen != "" {
		wv, err := WeightVsVolume(withMeta, a.opt.ScatterRegimen)
		switch {
		case err == nil:
			rep.Scatter = wv
		case errors.As(err, new(*InsufficientDataError)), errors.Is(err, ErrZeroVariance):
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("weight vs. volume regression skipped for %s: %v", a.opt.ScatterRegimen, err))
		default:
			return nil, err
		}
	}
	a.logger.Info("analysis complete",
		zap.String("run_id", rep.RunID),
		zap.Int("mice", rep.MiceClean),
		zap.Int("regimens", len(rep.Summary)),
		zap.Duration("elapsed", time.Since(start)))
	return rep, nil
}

// finalVolumeOutliers builds per-regimen box plot data and flags final tumor
// volumes outside the IQR fences.
func (a *Analyzer) finalVolumeOutliers(final []study.CombinedRow) ([]RegimenOutliers, error) {
	var population QuartileSet
	if a.opt.OutlierScope == ScopePopulation {
		all := make([]float64, 0, len(final))
		for _, r := range final {
			if r.Matched && r.Metadata != nil {
				all = append(all, r.TumorVolume)
			}
		}
		q, err := Quartiles(all)
		if err != nil {
			return nil, err
		}
		population = q
	}
	out := make([]RegimenOutliers, 0, len(a.opt.Regimens))
	for _, reg := range a.opt.Regimens {
		rows := finalRowsFor(final, reg)
		vols := make([]float64, len(rows))
		for i, r := range rows {
			vols[i] = r.TumorVolume
		}
		q := population
		if a.opt.OutlierScope != ScopePopulation {
			var err error
			if q, err = Quartiles(vols); err != nil {
				return nil, fmt.Errorf("regimen %s: %w", reg, err)
			}
		}
		lo, hi := BoundsK(q.Q1, q.Q3, a.opt.IQRMultiplier)
		ro := RegimenOutliers{Regimen: reg, Volumes: vols, Quartiles: q, Lower: lo, Upper: hi}
		for _, r := range rows {
			if r.TumorVolume < lo || r.TumorVolume > hi {
				ro.Outliers = append(ro.Outliers, Flagged{MouseID: r.MouseID, TumorVolume: r.TumorVolume})
			}
		}
		a.logger.Debug("regimen outliers",
			zap.String("regimen", reg),
			zap.Int("n", len(vols)),
			zap.Float64("lower", lo),
			zap.Float64("upper", hi),
			zap.Int("outliers", len(ro.Outliers)))
		out = append(out, ro)
	}
	return out, nil
}

// Timeline returns the ordered (timepoint, volume) series of one subject, or
// nil when the subject has no rows.
func Timeline(rows []study.CombinedRow, mouseID string) *SubjectTimeline {
	sel := Select(rows, MouseID, []string{mouseID})
	if len(sel) == 0 {
		return nil
	}
	tl := &SubjectTimeline{MouseID: mouseID, Regimen: sel[0].Regimen()}
	for _, r := range sel {
		tl.Points = append(tl.Points, TimelinePoint{Timepoint: r.Timepoint, TumorVolume: r.TumorVolume})
	}
	sort.SliceStable(tl.Points, func(i, j int) bool { return tl.Points[i].Timepoint < tl.Points[j].Timepoint })
	return tl
}

// WeightVsVolume averages weight and tumor volume per mouse within a regimen
// and fits volume on weight.
func WeightVsVolume(rows []study.CombinedRow, regimen string) (*WeightVolume, error) {
	sel := Select(rows, regimenOf, []string{regimen})
	ids, weights := MeanBy(sel, MouseID, func(r study.CombinedRow) float64 {
		w, _ := r.Weight()
		return w
	})
	_, vols := MeanBy(sel, MouseID, volumeOf)
	fit, err := FitLinear(weights, vols)
	if err != nil {
		return nil, err
	}
	wv := &WeightVolume{Regimen: regimen, MouseIDs: ids, Weights: weights, Volumes: vols, Fit: fit}
	wv.FitValues = make([]float64, len(weights))
	for i, w := range weights {
		wv.FitValues[i] = fit.Predict(w)
	}
	return wv, nil
}

func finalRowsFor(final []study.CombinedRow, regimen string) []study.CombinedRow {
	var out []study.CombinedRow
	for _, r := range final {
		if r.Matched && r.Regimen() == regimen {
			out = append(out, r)
		}
	}
	return out
}

func selectMatched(rows []study.CombinedRow) []study.CombinedRow {
	out := make([]study.CombinedRow, 0, len(rows))
	for _, r := range rows {
		if r.Metadata != nil {
			out = append(out, r)
		}
	}
	return out
}

func regimenOf(r study.CombinedRow) string { return r.Regimen() }

func volumeOf(r study.CombinedRow) float64 { return r.TumorVolume }

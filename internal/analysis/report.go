package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
)

// Report is the outcome of one analysis run. It carries everything the chart
// renderers and exporters need.
type Report struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	MetadataSource string    `json:"metadata_source"`
	ResultsSource  string    `json:"results_source"`

	Observations  int                 `json:"observations"`
	CleanRows     int                 `json:"clean_rows"`
	MiceTotal     int                 `json:"mice_total"`
	MiceClean     int                 `json:"mice_clean"`
	Unmatched     int                 `json:"unmatched_rows"`
	DuplicateMice []string            `json:"duplicate_mice"`
	DuplicateRows []study.CombinedRow `json:"duplicate_rows,omitempty"`
	Excluded      []string            `json:"excluded,omitempty"`

	Summary       []GroupSummary `json:"summary"`
	RegimenCounts []Count        `json:"regimen_counts"`
	SexCounts     []Count        `json:"sex_counts"`

	OutlierScope  Scope             `json:"outlier_scope"`
	IQRMultiplier float64           `json:"iqr_multiplier"`
	Outliers      []RegimenOutliers `json:"outliers"`

	Timeline *SubjectTimeline `json:"timeline,omitempty"`
	Scatter  *WeightVolume    `json:"scatter,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// RegimenOutliers holds one regimen's final tumor volumes with its IQR fences.
type RegimenOutliers struct {
	Regimen   string      `json:"regimen"`
	Volumes   []float64   `json:"volumes"`
	Quartiles QuartileSet `json:"quartiles"`
	Lower     float64     `json:"lower"`
	Upper     float64     `json:"upper"`
	Outliers  []Flagged   `json:"outliers"`
}

// Flagged is one final tumor volume outside the fences.
type Flagged struct {
	MouseID     string  `json:"mouse_id"`
	TumorVolume float64 `json:"tumor_volume"`
}

// TimelinePoint is one (timepoint, volume) measurement.
type TimelinePoint struct {
	Timepoint   int     `json:"timepoint"`
	TumorVolume float64 `json:"tumor_volume"`
}

// SubjectTimeline is the tumor volume series of a single mouse.
type SubjectTimeline struct {
	MouseID string          `json:"mouse_id"`
	Regimen string          `json:"regimen"`
	Points  []TimelinePoint `json:"points"`
}

// WeightVolume pairs per-mouse mean weight and mean tumor volume within a regimen.
type WeightVolume struct {
	Regimen   string     `json:"regimen"`
	MouseIDs  []string   `json:"mouse_ids"`
	Weights   []float64  `json:"weights"`
	Volumes   []float64  `json:"volumes"`
	Fit       Regression `json:"fit"`
	FitValues []float64  `json:"fit_values"`
}

// Markdown renders the report as plain sections for the terminal or a file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[STUDY SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	if r.MetadataSource != "" {
		b.WriteString(fmt.Sprintf("Metadata: %s\n", r.MetadataSource))
	}
	if r.ResultsSource != "" {
		b.WriteString(fmt.Sprintf("Results: %s\n", r.ResultsSource))
	}
	b.WriteString(fmt.Sprintf("Observations: %d (clean %d)\n", r.Observations, r.CleanRows))
	b.WriteString(fmt.Sprintf("Mice: %d (clean %d)\n", r.MiceTotal, r.MiceClean))

	if len(r.DuplicateMice) > 0 || len(r.Excluded) > 0 {
		b.WriteString("\n[EXCLUDED MICE]\n")
		for _, id := range r.DuplicateMice {
			b.WriteString(fmt.Sprintf("- %s: duplicate (mouse id, timepoint) observations\n", id))
		}
		for _, id := range r.Excluded {
			b.WriteString(fmt.Sprintf("- %s: excluded by configuration\n", id))
		}
	}

	if len(r.Summary) > 0 {
		b.WriteString("\n[TUMOR VOLUME BY REGIMEN]\n")
		b.WriteString("| Regimen | n | Mean | Median | Variance | Std. Dev. | Std. Error |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
		for _, s := range r.Summary {
			b.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				safeVal(s.Group), s.Count, s.Mean, s.Median, s.Variance, s.StdDev, s.SEM))
		}
	}

	if len(r.RegimenCounts) > 0 {
		b.WriteString("\n[OBSERVATIONS PER REGIMEN]\n")
		for _, c := range r.RegimenCounts {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(c.Value), c.Count))
		}
	}
	if len(r.SexCounts) > 0 {
		b.WriteString("\n[SEX DISTRIBUTION]\n")
		total := 0
		for _, c := range r.SexCounts {
			total += c.Count
		}
		for _, c := range r.SexCounts {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(c.Value), c.Count, float64(c.Count)*100/float64(total)))
		}
	}

	if len(r.Outliers) > 0 {
		b.WriteString("\n[FINAL TUMOR VOLUME OUTLIERS]\n")
		b.WriteString(fmt.Sprintf("Quartiles from: %s; fences at %.1f x IQR\n", r.OutlierScope, r.IQRMultiplier))
		for _, o := range r.Outliers {
			b.WriteString(fmt.Sprintf("- %s (n=%d): Q1 %.4f, median %.4f, Q3 %.4f, IQR %.4f, bounds [%.4f, %.4f]",
				o.Regimen, len(o.Volumes), o.Quartiles.Q1, o.Quartiles.Q2, o.Quartiles.Q3, o.Quartiles.IQR(), o.Lower, o.Upper))
			if len(o.Outliers) == 0 {
				b.WriteString("; no potential outliers\n")
				continue
			}
			b.WriteString("; potential outliers: ")
			for i, f := range o.Outliers {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%.4f)", f.MouseID, f.TumorVolume))
			}
			b.WriteString("\n")
		}
	}

	if r.Timeline != nil {
		b.WriteString(fmt.Sprintf("\n[TIMELINE %s (%s)]\n", r.Timeline.MouseID, r.Timeline.Regimen))
		for _, p := range r.Timeline.Points {
			b.WriteString(fmt.Sprintf("- t=%d: %.4f\n", p.Timepoint, p.TumorVolume))
		}
	}

	if r.Scatter != nil {
		f := r.Scatter.Fit
		b.WriteString(fmt.Sprintf("\n[WEIGHT VS. TUMOR VOLUME (%s)]\n", r.Scatter.Regimen))
		b.WriteString(fmt.Sprintf("Mice: %d\n", f.N))
		b.WriteString(fmt.Sprintf("Correlation: r=%.2f\n", f.R))
		b.WriteString(fmt.Sprintf("Regression: y = %.4fx + %.4f (r²=%.4f, p=%.3g, stderr=%.4f)\n", f.Slope, f.Intercept, f.R*f.R, f.PValue, f.StdErr))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// DuplicatesMarkdown lists every row recorded for the duplicate mice.
func (r *Report) DuplicatesMarkdown() string {
	var b strings.Builder
	b.WriteString("[DUPLICATE MICE]\n")
	if len(r.DuplicateMice) == 0 {
		b.WriteString("none\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("IDs: %s\n\n", strings.Join(r.DuplicateMice, ", ")))
	b.WriteString("| Mouse ID | Timepoint | Tumor Volume | Metastatic Sites | Regimen | Sex | Age | Weight |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, row := range r.DuplicateRows {
		reg, sex, age, weight := "", "", "", ""
		if m := row.Metadata; m != nil {
			reg, sex = m.Regimen, string(m.Sex)
			age = fmt.Sprintf("%d", m.AgeMonths)
			weight = fmt.Sprintf("%.4g", m.WeightGrams)
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %.4f | %d | %s | %s | %s | %s |\n",
			safeVal(row.MouseID), row.Timepoint, row.TumorVolume, row.MetastaticSites, safeVal(reg), sex, age, weight))
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

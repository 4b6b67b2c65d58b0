package study

import (
	"fmt"
	"strings"
)

// Sex of a study subject.
type Sex string

const (
	Male   Sex = "Male"
	Female Sex = "Female"
)

// ParseSex accepts the usual spellings (case-insensitive, M/F shorthands).
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return "", fmt.Errorf("unknown sex %q", s)
	}
}

// MouseRecord is one row of the mouse metadata table.
type MouseRecord struct {
	MouseID     string  `json:"mouse_id"`
	Regimen     string  `json:"drug_regimen"`
	Sex         Sex     `json:"sex"`
	AgeMonths   int     `json:"age_months"`
	WeightGrams float64 `json:"weight_g"`
}

// Observation is one tumor measurement of one mouse at one timepoint.
type Observation struct {
	MouseID         string  `json:"mouse_id"`
	Timepoint       int     `json:"timepoint"`
	TumorVolume     float64 `json:"tumor_volume_mm3"`
	MetastaticSites int     `json:"metastatic_sites"`
}

// CombinedRow is an observation left-joined with its mouse metadata.
// Metadata is nil when the mouse id had no metadata row.
type CombinedRow struct {
	Observation
	Metadata *MouseRecord `json:"metadata,omitempty"`
	// Matched is false for rows synthesized by a right join with no source row.
	Matched bool `json:"matched"`
}

// Regimen returns the drug regimen, or "" when metadata is missing.
func (r CombinedRow) Regimen() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.Regimen
}

// Sex returns the subject's sex, or "" when metadata is missing.
func (r CombinedRow) Sex() Sex {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.Sex
}

// Weight returns the subject's weight in grams and whether it is known.
func (r CombinedRow) Weight() (float64, bool) {
	if r.Metadata == nil {
		return 0, false
	}
	return r.Metadata.WeightGrams, true
}

// Dataset holds both raw input tables of a study.
type Dataset struct {
	Mice         []MouseRecord
	Observations []Observation
	// Source file names, for reporting.
	MiceSource    string
	ResultsSource string
}

package analysis

import (
	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
)

// EntityTime identifies one subject at one timepoint.
type EntityTime struct {
	MouseID   string `json:"mouse_id"`
	Timepoint int    `json:"timepoint"`
}

// ObservationKey is the composite key that must be unique in a clean dataset.
func ObservationKey(r study.CombinedRow) EntityTime {
	return EntityTime{MouseID: r.MouseID, Timepoint: r.Timepoint}
}

// MouseID extracts the subject id of a row.
func MouseID(r study.CombinedRow) string { return r.MouseID }

// Merge left-joins observations onto mouse metadata by mouse id.
// Every observation is kept in input order; rows without metadata carry nil.
// If the metadata lists a mouse twice, the first record wins.
func Merge(obs []study.Observation, mice []study.MouseRecord) []study.CombinedRow {
	byID := make(map[string]study.MouseRecord, len(mice))
	for _, m := range mice {
		if _, ok := byID[m.MouseID]; !ok {
			byID[m.MouseID] = m
		}
	}
	out := make([]study.CombinedRow, len(obs))
	for i, o := range obs {
		row := study.CombinedRow{Observation: o, Matched: true}
		if m, ok := byID[o.MouseID]; ok {
			md := m
			row.Metadata = &md
		}
		out[i] = row
	}
	return out
}

// MergeFinal right-joins rows onto keys by (mouse id, timepoint): the result has
// exactly one row per key, in key order. Keys with no matching row produce a
// row with only the key fields set and Matched=false.
func MergeFinal(rows []study.CombinedRow, keys []EntityTime) []study.CombinedRow {
	byKey := make(map[EntityTime]study.CombinedRow, len(rows))
	for _, r := range rows {
		k := ObservationKey(r)
		if _, ok := byKey[k]; !ok {
			byKey[k] = r
		}
	}
	out := make([]study.CombinedRow, len(keys))
	for i, k := range keys {
		if r, ok := byKey[k]; ok {
			out[i] = r
			continue
		}
		out[i] = study.CombinedRow{Observation: study.Observation{MouseID: k.MouseID, Timepoint: k.Timepoint}}
	}
	return out
}

// FindDuplicateKeys returns the distinct entity values, in first-seen order, of
// rows whose composite key appears more than once.
func FindDuplicateKeys[T any, K comparable](rows []T, key func(T) K, entity func(T) string) []string {
	seen := make(map[K]struct{}, len(rows))
	flagged := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			continue
		}
		id := entity(r)
		if _, ok := flagged[id]; ok {
			continue
		}
		flagged[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Exclude returns a new slice without the rows whose column value is in values.
func Exclude[T any](rows []T, column func(T) string, values []string) []T {
	drop := toSet(values)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if _, ok := drop[column(r)]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Select is the complement of Exclude: it keeps only rows whose column value is in values.
func Select[T any](rows []T, column func(T) string, values []string) []T {
	keep := toSet(values)
	var out []T
	for _, r := range rows {
		if _, ok := keep[column(r)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// CountDistinct returns the number of distinct values of column.
func CountDistinct[T any](rows []T, column func(T) string) int {
	seen := map[string]struct{}{}
	for _, r := range rows {
		seen[column(r)] = struct{}{}
	}
	return len(seen)
}

func toSet(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

package study

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Header aliases accepted for each logical column.
var (
	colMouseID   = []string{"Mouse ID", "MouseID", "Mouse"}
	colRegimen   = []string{"Drug Regimen", "Regimen", "Drug"}
	colSex       = []string{"Sex", "Gender"}
	colAge       = []string{"Age", "Age months"}
	colWeight    = []string{"Weight"}
	colTimepoint = []string{"Timepoint", "Time point", "Time"}
	colVolume    = []string{"Tumor Volume", "Tumour Volume", "Volume"}
	colSites     = []string{"Metastatic Sites", "Metastatic"}
)

// Load reads both study tables.
func Load(metadataPath, resultsPath string, opt ReadOptions) (*Dataset, error) {
	mt, err := ReadTable(metadataPath, opt)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	mice, err := DecodeMice(mt)
	if err != nil {
		return nil, err
	}
	rt, err := ReadTable(resultsPath, opt)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	obs, err := DecodeObservations(rt)
	if err != nil {
		return nil, err
	}
	return &Dataset{Mice: mice, Observations: obs, MiceSource: mt.Name, ResultsSource: rt.Name}, nil
}

// DecodeMice converts a raw table into mouse metadata records.
func DecodeMice(t *Table) ([]MouseRecord, error) {
	cols, err := resolve(t, map[string][]string{
		"Mouse ID":     colMouseID,
		"Drug Regimen": colRegimen,
		"Sex":          colSex,
		"Age":          colAge,
		"Weight":       colWeight,
	})
	if err != nil {
		return nil, err
	}
	out := make([]MouseRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		c := cells{table: t, row: row, n: i + 1}
		rec := MouseRecord{
			MouseID: c.str(cols["Mouse ID"], "Mouse ID"),
			Regimen: c.str(cols["Drug Regimen"], "Drug Regimen"),
		}
		if c.err == nil {
			sex, err := ParseSex(row[cols["Sex"]])
			if err != nil {
				c.fail("Sex", err.Error())
			}
			rec.Sex = sex
		}
		rec.AgeMonths = c.nonNegInt(cols["Age"], "Age")
		rec.WeightGrams = c.float(cols["Weight"], "Weight")
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeObservations converts a raw table into tumor observations.
func DecodeObservations(t *Table) ([]Observation, error) {
	cols, err := resolve(t, map[string][]string{
		"Mouse ID":         colMouseID,
		"Timepoint":        colTimepoint,
		"Tumor Volume":     colVolume,
		"Metastatic Sites": colSites,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Observation, 0, len(t.Rows))
	for i, row := range t.Rows {
		c := cells{table: t, row: row, n: i + 1}
		rec := Observation{
			MouseID:         c.str(cols["Mouse ID"], "Mouse ID"),
			Timepoint:       c.nonNegInt(cols["Timepoint"], "Timepoint"),
			TumorVolume:     c.float(cols["Tumor Volume"], "Tumor Volume"),
			MetastaticSites: c.nonNegInt(cols["Metastatic Sites"], "Metastatic Sites"),
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, rec)
	}
	return out, nil
}

func resolve(t *Table, want map[string][]string) (map[string]int, error) {
	idx := make(map[string]int, len(want))
	// stable error order
	for _, name := range []string{"Mouse ID", "Drug Regimen", "Sex", "Age", "Weight", "Timepoint", "Tumor Volume", "Metastatic Sites"} {
		aliases, ok := want[name]
		if !ok {
			continue
		}
		i, found := t.Column(aliases...)
		if !found {
			return nil, &SchemaError{File: t.Name, Column: name, Reason: fmt.Sprintf("missing column (have %s)", strings.Join(t.Header, ", "))}
		}
		idx[name] = i
	}
	return idx, nil
}

// cells parses one row and keeps the first error.
type cells struct {
	table *Table
	row   []string
	n     int
	err   error
}

func (c *cells) fail(col, reason string) {
	if c.err == nil {
		c.err = &SchemaError{File: c.table.Name, Column: col, Row: c.n, Reason: reason}
	}
}

func (c *cells) str(i int, col string) string {
	v := strings.TrimSpace(c.row[i])
	if v == "" {
		c.fail(col, "empty value")
	}
	return v
}

func (c *cells) nonNegInt(i int, col string) int {
	v := strings.TrimSpace(c.row[i])
	n, err := strconv.Atoi(v)
	if err != nil {
		// Spreadsheets often store integers as "10.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			c.fail(col, fmt.Sprintf("not an integer: %q", v))
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		c.fail(col, fmt.Sprintf("negative value: %d", n))
	}
	return n
}

func (c *cells) float(i int, col string) float64 {
	v := strings.TrimSpace(c.row[i])
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.fail(col, fmt.Sprintf("not a number: %q", v))
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		c.fail(col, fmt.Sprintf("not a finite number: %q", v))
		return 0
	}
	return f
}

package study

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw, untyped table: a header plus string cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReadOptions controls how tables are read from disk.
type ReadOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension (',' or '\t').
	Delimiter rune
	// SheetName selects the XLSX sheet; empty means the first sheet.
	SheetName string
}

// ReadTable reads a .csv, .tsv or .xlsx file into a Table.
func ReadTable(path string, opt ReadOptions) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readXLSX(path, opt.SheetName)
	}
	return readCSV(path, opt.Delimiter)
}

func readCSV(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	t := &Table{Name: filepath.Base(path)}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t.Header = trimAll(header)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if blankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, padRow(rec, len(t.Header)))
	}
	return t, nil
}

func readXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx %s has no sheets", filepath.Base(path))
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	t := &Table{Name: fmt.Sprintf("%s (sheet: %s)", filepath.Base(path), sheet)}
	if len(rows) == 0 {
		return t, nil
	}
	t.Header = trimAll(rows[0])
	for _, rec := range rows[1:] {
		if blankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, padRow(rec, len(t.Header)))
	}
	return t, nil
}

// Column returns the index of the first header matching any of names.
// Matching ignores case, surrounding space and a trailing unit such as "(mm3)".
func (t *Table) Column(names ...string) (int, bool) {
	for _, want := range names {
		w := normalizeHeader(want)
		for i, h := range t.Header {
			if normalizeHeader(h) == w {
				return i, true
			}
		}
	}
	return -1, false
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
	}
	return out
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func padRow(rec []string, n int) []string {
	row := make([]string, max(n, len(rec)))
	for i, v := range rec {
		row[i] = strings.TrimSpace(v)
	}
	return row
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`),  // e.g., Weight (g)
	regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), // e.g., Tumor Volume [mm3]
}

// splitUnits separates a trailing unit annotation from a header name.
func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[2])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}

func normalizeHeader(h string) string {
	clean, _ := splitUnits(h)
	clean = strings.ToLower(clean)
	clean = strings.NewReplacer("_", " ", "-", " ").Replace(clean)
	return strings.Join(strings.Fields(clean), " ")
}

// Package export writes analysis reports to spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary  = "Summary"
	SheetCounts   = "Counts"
	SheetOutliers = "Outliers"
	SheetScatter  = "Weight vs Volume"
)

// WriteWorkbook saves the report tables as an .xlsx workbook at path.
func WriteWorkbook(rep *analysis.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := [][]interface{}{{"Drug Regimen", "Count", "Mean Tumor Volume", "Median Tumor Volume", "Tumor Volume Variance", "Tumor Volume Std. Dev.", "Tumor Volume Std. Error"}}
	for _, s := range rep.Summary {
		rows = append(rows, []interface{}{s.Group, s.Count, s.Mean, s.Median, s.Variance, s.StdDev, s.SEM})
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Drug Regimen", "Observations", "", "Sex", "Count"}}
	for i := 0; i < max(len(rep.RegimenCounts), len(rep.SexCounts)); i++ {
		row := []interface{}{"", "", "", "", ""}
		if i < len(rep.RegimenCounts) {
			row[0], row[1] = rep.RegimenCounts[i].Value, rep.RegimenCounts[i].Count
		}
		if i < len(rep.SexCounts) {
			row[3], row[4] = rep.SexCounts[i].Value, rep.SexCounts[i].Count
		}
		rows = append(rows, row)
	}
	if err := addSheet(f, SheetCounts, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Drug Regimen", "Q1", "Median", "Q3", "IQR", "Lower Bound", "Upper Bound", "Outlier Mouse ID", "Final Tumor Volume"}}
	for _, o := range rep.Outliers {
		base := []interface{}{o.Regimen, o.Quartiles.Q1, o.Quartiles.Q2, o.Quartiles.Q3, o.Quartiles.IQR(), o.Lower, o.Upper}
		if len(o.Outliers) == 0 {
			rows = append(rows, append(base, "", ""))
			continue
		}
		for _, fl := range o.Outliers {
			row := append(append([]interface{}{}, base...), fl.MouseID, fl.TumorVolume)
			rows = append(rows, row)
		}
	}
	if err := addSheet(f, SheetOutliers, rows); err != nil {
		return err
	}

	if sc := rep.Scatter; sc != nil {
		rows = [][]interface{}{{"Mouse ID", "Mean Weight (g)", "Mean Tumor Volume (mm3)", "Fitted Volume"}}
		for i, id := range sc.MouseIDs {
			rows = append(rows, []interface{}{id, sc.Weights[i], sc.Volumes[i], sc.FitValues[i]})
		}
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"Slope", sc.Fit.Slope},
			[]interface{}{"Intercept", sc.Fit.Intercept},
			[]interface{}{"r", sc.Fit.R},
			[]interface{}{"p-value", sc.Fit.PValue},
			[]interface{}{"Std. Error", sc.Fit.StdErr},
		)
		if err := addSheet(f, SheetScatter, rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// Sheet names of the workbook.
const (
	SummarySheet = "Summary"
	HistorySheet = "History"
)

// WriteXLSX writes the summary and history tables to one workbook with a sheet each.
// Numeric columns holding numbers are stored as numbers.
func WriteXLSX(path string, t *Tables) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(HistorySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", HistorySheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSheet(f, SummarySheet, t.SummarySchema, t.Summary, bold); err != nil {
		return err
	}
	if err := writeSheet(f, HistorySheet, t.HistorySchema, t.History, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, s *schema.Schema, records []domain.Record, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet %s: %w", sheet, err)
	}
	if err := sw.SetColWidth(1, s.Len(), 16); err != nil {
		return fmt.Errorf("set widths on %s: %w", sheet, err)
	}

	columns := s.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = cellValue(s.KindOf(c), r[c])
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}
	return sw.Flush()
}

func cellValue(kind schema.Kind, v string) interface{} {
	switch kind {
	case schema.KindInteger, schema.KindDecimal, schema.KindOdds:
		if n, ok := schema.ParseNumber(v); ok {
			return n
		}
	}
	return v
}

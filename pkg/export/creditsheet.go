package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

const (
	SummarySheet = "Summary"
	EntriesSheet = "Entries"
)

var (
	summaryHeader = []any{"Username", "Role", "Desk Credits", "Weekly Credits", "Monthly Credits", "Total Credits"}
	entriesHeader = []any{"Username", "Date", "Time", "Class", "Variant", "Position", "Credits"}
)

// CreditSheet builds a workbook with the admin summary rows and every user's entries.
// Entries are listed in the order of rows.
func CreditSheet(rows []services.CreditSheetRow, entries map[string][]model.CreditEntry) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return nil, fmt.Errorf("failed to create entries sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summary := make([][]any, 0, len(rows))
	for _, r := range rows {
		summary = append(summary, []any{r.Username, string(r.Role), r.DeskCredits, r.WeeklyCredits, r.MonthlyCredits, r.TotalCredits})
	}
	if err := writeTable(f, SummarySheet, summaryHeader, summary, bold); err != nil {
		return nil, err
	}

	var lines [][]any
	for _, r := range rows {
		for _, e := range entries[r.Username] {
			credits := any(e.Credits)
			if e.IsDeskCredit {
				credits = "Desk"
			}
			lines = append(lines, []any{
				e.Username,
				e.Date,
				calendar.TimeRange(e.StartTime, e.EndTime),
				e.ClassType,
				e.ClassVariant,
				string(e.Position),
				credits,
			})
		}
	}
	if err := writeTable(f, EntriesSheet, entriesHeader, lines, bold); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteCreditSheet writes the credit sheet workbook as xlsx
func WriteCreditSheet(w io.Writer, rows []services.CreditSheetRow, entries map[string][]model.CreditEntry) error {
	f, err := CreditSheet(rows, entries)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveCreditSheet writes the credit sheet workbook to path
func SaveCreditSheet(path string, rows []services.CreditSheetRow, entries map[string][]model.CreditEntry) error {
	f, err := CreditSheet(rows, entries)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook to %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
)

func testData() ([]services.CreditSheetRow, map[string][]model.CreditEntry) {
	rows := []services.CreditSheetRow{
		{Username: "carl", Role: model.RoleCI, DeskCredits: 1, WeeklyCredits: 2, MonthlyCredits: 2, TotalCredits: 2},
		{Username: "tia", Role: model.RoleTI, TotalCredits: 1},
	}
	entries := map[string][]model.CreditEntry{
		"carl": {
			{Username: "carl", Date: "2023-11-07", StartTime: 66, EndTime: 68, ClassType: "Dragons", Position: model.PositionLead, Credits: 2},
			{Username: "carl", Date: "2023-11-08", StartTime: 70, EndTime: 72, ClassType: "Dragons", Position: model.PositionDesk, Credits: 1, IsDeskCredit: true},
		},
		"tia": {
			{Username: "tia", Date: "2023-11-07", StartTime: 78, EndTime: 82, ClassType: "Adults", ClassVariant: "Muay Thai", Position: model.PositionAssist, Credits: 1},
		},
	}
	return rows, entries
}

func TestWriteCreditSheet(t *testing.T) {
	rows, entries := testData()

	var buf bytes.Buffer
	require.NoError(t, WriteCreditSheet(&buf, rows, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, EntriesSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Username", "Role", "Desk Credits", "Weekly Credits", "Monthly Credits", "Total Credits"},
		{"carl", "CI", "1", "2", "2", "2"},
		{"tia", "TI", "0", "0", "0", "1"},
	}, summary)

	lines, err := f.GetRows(EntriesSheet)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"carl", "2023-11-07", "04:30 PM - 05:00 PM", "Dragons", "", "lead", "2"}, lines[1])
	assert.Equal(t, "Desk", lines[2][6])
	assert.Equal(t, []string{"tia", "2023-11-07", "07:30 PM - 08:30 PM", "Adults", "Muay Thai", "assist", "1"}, lines[3])
}

func TestSaveCreditSheet(t *testing.T) {
	rows, entries := testData()
	path := filepath.Join(t.TempDir(), "credits.xlsx")

	require.NoError(t, SaveCreditSheet(path, rows, entries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SummarySheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestCreditSheet_Empty(t *testing.T) {
	f, err := CreditSheet(nil, nil)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Len(t, summary, 1)
}

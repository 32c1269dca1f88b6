package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vehicle-rental-backend/internal/domain"
)

func testReport(t *testing.T, kind domain.ReportType, data any) *domain.Report {
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &domain.Report{
		ID:            7,
		Title:         "February",
		Type:          kind,
		StartDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Data:          raw,
		GeneratorName: "Admin User",
		CreatedAt:     time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestReportWorkbook_Revenue(t *testing.T) {
	rp := testReport(t, domain.ReportRevenue, map[string]any{
		"total_revenue":         270.0,
		"booking_count":         2,
		"average_booking_value": 135.0,
		"revenue_by_type":       map[string]float64{"sedan": 135, "suv": 135},
		"daily_revenue":         map[string]float64{"2024-02-03": 135, "2024-02-01": 135},
	})

	data, err := ReportWorkbook(rp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Daily revenue", "Revenue by type"}, f.GetSheetList())

	title, _ := f.GetCellValue("Summary", "B1")
	assert.Equal(t, "February", title)
	gen, _ := f.GetCellValue("Summary", "B6")
	assert.Equal(t, "Admin User", gen)

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"Total revenue", "270"})

	daily, err := f.GetRows("Daily revenue")
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, []string{"Key", "Value"}, daily[0])
	assert.Equal(t, "2024-02-01", daily[1][0])
	assert.Equal(t, "2024-02-03", daily[2][0])
}

func TestReportWorkbook_NestedBreakdown(t *testing.T) {
	rp := testReport(t, domain.ReportUtilization, map[string]any{
		"total_vehicles":   2,
		"utilization_rate": 12.5,
		"utilization_by_type": map[string]any{
			"sedan": map[string]any{"total_vehicles": 1, "utilization_rate": 25},
		},
	})

	data, err := ReportWorkbook(rp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Utilization by type")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Key", "Total vehicles", "Utilization rate"}, rows[0])
	assert.Equal(t, []string{"sedan", "1", "25"}, rows[1])
}

func TestReportWorkbook_InvalidData(t *testing.T) {
	rp := &domain.Report{Data: json.RawMessage(`[1,2`)}
	_, err := ReportWorkbook(rp)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	rp := testReport(t, domain.ReportBookingTrends, map[string]any{})
	assert.Equal(t, "report-7-booking-trends-2024-02-01_2024-02-29.xlsx", Filename(rp))
}

package domain

import (
	"encoding/json"
	"time"
)

type ReportType string

const (
	ReportRevenue       ReportType = "revenue"
	ReportUtilization   ReportType = "utilization"
	ReportBookingTrends ReportType = "booking-trends"
)

func (t ReportType) IsValid() bool {
	switch t {
	case ReportRevenue, ReportUtilization, ReportBookingTrends:
		return true
	}
	return false
}

// Report is a persisted, immutable snapshot of aggregated data.
type Report struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Type          ReportType      `json:"type"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Data          json.RawMessage `json:"data"`
	GeneratedBy   int64           `json:"generated_by"`
	GeneratorName string          `json:"generated_by_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ReportFilter struct {
	Type        ReportType
	GeneratedBy int64
}

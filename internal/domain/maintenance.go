package domain

import "time"

type MaintenanceRecord struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CostCents   int64     `json:"cost_cents"`
	PerformedBy string    `json:"performed_by"`
	Vehicle     *Vehicle  `json:"vehicle,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MaintenanceFilter struct {
	VehicleID int64
	Type      string
	From      *time.Time
	To        *time.Time
}

package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusRented, VehicleStatusMaintenance:
		return true
	}
	return false
}

type Vehicle struct {
	ID             int64               `json:"id"`
	Make           string              `json:"make"`
	Model          string              `json:"model"`
	Year           int                 `json:"year"`
	Type           string              `json:"type"`
	DailyRateCents int64               `json:"daily_rate_cents"`
	Status         VehicleStatus       `json:"status"`
	LicensePlate   string              `json:"license_plate"`
	Color          string              `json:"color"`
	FuelType       string              `json:"fuel_type"`
	Transmission   string              `json:"transmission"`
	Seats          int                 `json:"seats"`
	ImageURL       string              `json:"image_url,omitempty"`
	Maintenance    []MaintenanceRecord `json:"maintenance_records,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty"`
}

// DisplayName is the "make model" label used in activity details and notifications.
func (v *Vehicle) DisplayName() string {
	return v.Make + " " + v.Model
}

func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// VehicleFilter narrows vehicle listings. Zero values are ignored.
type VehicleFilter struct {
	Status        VehicleStatus
	Type          string
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
}

// TypeCount is the number of fleet vehicles of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

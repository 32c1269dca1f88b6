package booking

import (
	"time"

	"vehicle-rental-backend/internal/domain"
)

// Conflicts returns the bookings that hold the vehicle on at least one day of r.
// Only approved and active bookings hold a vehicle; exclude skips the booking
// being re-checked during a status change (0 excludes nothing).
func Conflicts(existing []domain.Booking, r domain.DateRange, exclude int64) []domain.Booking {
	var out []domain.Booking
	for _, b := range existing {
		if b.ID == exclude && exclude != 0 {
			continue
		}
		if !b.Status.IsBlocking() {
			continue
		}
		if b.Range().Overlaps(r) {
			out = append(out, b)
		}
	}
	return out
}

// IsAvailable reports whether none of the existing bookings blocks [start, end].
func IsAvailable(existing []domain.Booking, start, end time.Time) bool {
	r := domain.DateRange{Start: domain.Day(start), End: domain.Day(end)}
	return len(Conflicts(existing, r, 0)) == 0
}

// TotalAmountCents bills every calendar day of the range, both endpoints included.
func TotalAmountCents(start, end time.Time, dailyRateCents int64) int64 {
	return int64(domain.RentalDays(start, end)) * dailyRateCents
}

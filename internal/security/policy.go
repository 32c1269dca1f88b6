package security

import (
	"vehicle-rental-backend/internal/domain"
)

// Capability names one guarded operation.
type Capability string

const (
	CapManageVehicles      Capability = "vehicles:manage"
	CapManageMaintenance   Capability = "maintenance:manage"
	CapCreateBooking       Capability = "bookings:create"
	CapViewAllBookings     Capability = "bookings:view-all"
	CapUpdateBookingStatus Capability = "bookings:update-status"
	CapCancelAnyBooking    Capability = "bookings:cancel-any"
	CapViewAllActivities   Capability = "activities:view-all"
	CapSendNotifications   Capability = "notifications:create"
	CapManageReports       Capability = "reports:manage"
	CapViewStats           Capability = "dashboard:stats"
)

var customerCapabilities = []Capability{
	CapCreateBooking,
}

var staffCapabilities = append([]Capability{
	CapManageVehicles,
	CapManageMaintenance,
	CapViewAllBookings,
	CapUpdateBookingStatus,
	CapCancelAnyBooking,
	CapViewAllActivities,
	CapSendNotifications,
	CapManageReports,
	CapViewStats,
}, customerCapabilities...)

// Policy maps roles to the capabilities they hold.
type Policy struct {
	grants map[domain.Role]map[Capability]bool
}

// DefaultPolicy grants admin and staff every capability and customers only
// what they need to book for themselves.
func DefaultPolicy() *Policy {
	p := &Policy{grants: map[domain.Role]map[Capability]bool{}}
	p.Grant(domain.RoleCustomer, customerCapabilities...)
	p.Grant(domain.RoleStaff, staffCapabilities...)
	p.Grant(domain.RoleAdmin, staffCapabilities...)
	return p
}

func (p *Policy) Grant(role domain.Role, caps ...Capability) {
	if p.grants[role] == nil {
		p.grants[role] = map[Capability]bool{}
	}
	for _, c := range caps {
		p.grants[role][c] = true
	}
}

func (p *Policy) Can(user *domain.User, c Capability) bool {
	if user == nil {
		return false
	}
	return p.grants[user.Role][c]
}

// Authorize returns an AuthorizationError when user lacks c.
func (p *Policy) Authorize(user *domain.User, c Capability) error {
	if !p.Can(user, c) {
		return domain.ErrUnauthorized
	}
	return nil
}

// CanAccessOwned reports whether user may act on a record owned by ownerID,
// either as its owner or by holding c.
func (p *Policy) CanAccessOwned(user *domain.User, ownerID int64, c Capability) bool {
	return user != nil && (user.ID == ownerID || p.Can(user, c))
}

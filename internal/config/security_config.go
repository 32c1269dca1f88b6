// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Bearer access token required
)

// EndpointSecurityConfig maps named routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"auth.register": SecurityPublic,
	"auth.login":    SecurityPublic,
	"health":        SecurityPublic,

	// Vehicle images are served without a token so <img> tags work
	"storage.download": SecurityPublic,

	// Auth - Access Protected
	"auth.logout":  SecurityAccess,
	"auth.me":      SecurityAccess,
	"auth.profile": SecurityAccess,

	// Dashboard - Access Protected
	"dashboard.show":  SecurityAccess,
	"dashboard.stats": SecurityAccess,

	// Vehicles - Access Protected
	"vehicles.index":        SecurityAccess,
	"vehicles.store":        SecurityAccess,
	"vehicles.available":    SecurityAccess,
	"vehicles.show":         SecurityAccess,
	"vehicles.update":       SecurityAccess,
	"vehicles.destroy":      SecurityAccess,
	"vehicles.image":        SecurityAccess,
	"vehicles.availability": SecurityAccess,

	// Bookings - Access Protected
	"bookings.index":   SecurityAccess,
	"bookings.store":   SecurityAccess,
	"bookings.show":    SecurityAccess,
	"bookings.update":  SecurityAccess,
	"bookings.destroy": SecurityAccess,

	// Maintenance - Access Protected
	"maintenance.index":   SecurityAccess,
	"maintenance.store":   SecurityAccess,
	"maintenance.vehicle": SecurityAccess,
	"maintenance.show":    SecurityAccess,
	"maintenance.update":  SecurityAccess,
	"maintenance.destroy": SecurityAccess,

	// Activities - Access Protected
	"activities.index":  SecurityAccess,
	"activities.entity": SecurityAccess,
	"activities.user":   SecurityAccess,
	"activities.show":   SecurityAccess,

	// Notifications - Access Protected
	"notifications.index":    SecurityAccess,
	"notifications.store":    SecurityAccess,
	"notifications.unread":   SecurityAccess,
	"notifications.read_all": SecurityAccess,
	"notifications.show":     SecurityAccess,
	"notifications.read":     SecurityAccess,
	"notifications.destroy":  SecurityAccess,

	// Reports - Access Protected
	"reports.index":          SecurityAccess,
	"reports.store":          SecurityAccess,
	"reports.revenue":        SecurityAccess,
	"reports.utilization":    SecurityAccess,
	"reports.booking_trends": SecurityAccess,
	"reports.show":           SecurityAccess,
	"reports.destroy":        SecurityAccess,
	"reports.export":         SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vehicle-rental-backend/internal/domain"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Vehicles      *VehicleHandler
	Availability  *AvailabilityHandler
	Bookings      *BookingHandler
	Maintenance   *MaintenanceHandler
	Activities    *ActivityHandler
	Notifications *NotificationHandler
	Reports       *ReportHandler
	Dashboard     *DashboardHandler
	Storage       *StorageHandler
	Health        *HealthHandler
}

// NewRouter mounts every route under /api. Route names drive the
// authentication requirement looked up by the auth middleware.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api := router.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = router.NotFoundHandler
	api.MethodNotAllowedHandler = router.MethodNotAllowedHandler
	api.Use(requestID, accessLog, recoverPanic, auth.Handler)

	api.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet).Name("health")
	api.HandleFunc("/storage/{key:.+}", h.Storage.Download).Methods(http.MethodGet).Name("storage.download")

	api.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost).Name("auth.register")
	api.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost).Name("auth.logout")
	api.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet).Name("auth.me")
	api.HandleFunc("/profile", h.Auth.UpdateProfile).Methods(http.MethodPut).Name("auth.profile")

	api.HandleFunc("/dashboard", h.Dashboard.Dashboard).Methods(http.MethodGet).Name("dashboard.show")
	api.HandleFunc("/stats", h.Dashboard.Stats).Methods(http.MethodGet).Name("dashboard.stats")

	api.HandleFunc("/vehicles", h.Vehicles.List).Methods(http.MethodGet).Name("vehicles.index")
	api.HandleFunc("/vehicles", h.Vehicles.Create).Methods(http.MethodPost).Name("vehicles.store")
	api.HandleFunc("/vehicles-available", h.Vehicles.Available).Methods(http.MethodGet).Name("vehicles.available")
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Show).Methods(http.MethodGet).Name("vehicles.show")
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Update).Methods(http.MethodPut, http.MethodPatch).Name("vehicles.update")
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Delete).Methods(http.MethodDelete).Name("vehicles.destroy")
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", h.Availability.Check).Methods(http.MethodGet).Name("vehicles.availability")
	api.HandleFunc("/vehicles/{id:[0-9]+}/image", h.Vehicles.UploadImage).Methods(http.MethodPost, http.MethodPut).Name("vehicles.image")

	api.HandleFunc("/bookings", h.Bookings.List).Methods(http.MethodGet).Name("bookings.index")
	api.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost).Name("bookings.store")
	api.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Show).Methods(http.MethodGet).Name("bookings.show")
	api.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Update).Methods(http.MethodPut, http.MethodPatch).Name("bookings.update")
	api.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Delete).Methods(http.MethodDelete).Name("bookings.destroy")

	api.HandleFunc("/maintenance", h.Maintenance.List).Methods(http.MethodGet).Name("maintenance.index")
	api.HandleFunc("/maintenance", h.Maintenance.Create).Methods(http.MethodPost).Name("maintenance.store")
	api.HandleFunc("/maintenance/vehicle/{vehicleId:[0-9]+}", h.Maintenance.ByVehicle).Methods(http.MethodGet).Name("maintenance.vehicle")
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Show).Methods(http.MethodGet).Name("maintenance.show")
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Update).Methods(http.MethodPut, http.MethodPatch).Name("maintenance.update")
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Delete).Methods(http.MethodDelete).Name("maintenance.destroy")

	api.HandleFunc("/activities", h.Activities.List).Methods(http.MethodGet).Name("activities.index")
	api.HandleFunc("/activities/entity/{entity}/{entityId}", h.Activities.ByEntity).Methods(http.MethodGet).Name("activities.entity")
	api.HandleFunc("/activities/user/{userId:[0-9]+}", h.Activities.ByUser).Methods(http.MethodGet).Name("activities.user")
	api.HandleFunc("/activities/{id:[0-9]+}", h.Activities.Show).Methods(http.MethodGet).Name("activities.show")

	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet).Name("notifications.index")
	api.HandleFunc("/notifications", h.Notifications.Create).Methods(http.MethodPost).Name("notifications.store")
	api.HandleFunc("/notifications/unread/count", h.Notifications.UnreadCount).Methods(http.MethodGet).Name("notifications.unread")
	api.HandleFunc("/notifications/mark-all-read", h.Notifications.MarkAllAsRead).Methods(http.MethodPost).Name("notifications.read_all")
	api.HandleFunc("/notifications/{id:[0-9]+}", h.Notifications.Show).Methods(http.MethodGet).Name("notifications.show")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkAsRead).Methods(http.MethodPatch, http.MethodPost).Name("notifications.read")
	api.HandleFunc("/notifications/{id:[0-9]+}", h.Notifications.Delete).Methods(http.MethodDelete).Name("notifications.destroy")

	api.HandleFunc("/reports", h.Reports.List).Methods(http.MethodGet).Name("reports.index")
	api.HandleFunc("/reports", h.Reports.Create).Methods(http.MethodPost).Name("reports.store")
	api.HandleFunc("/reports/revenue", h.Reports.Generate(domain.ReportRevenue)).Methods(http.MethodPost).Name("reports.revenue")
	api.HandleFunc("/reports/utilization", h.Reports.Generate(domain.ReportUtilization)).Methods(http.MethodPost).Name("reports.utilization")
	api.HandleFunc("/reports/booking-trends", h.Reports.Generate(domain.ReportBookingTrends)).Methods(http.MethodPost).Name("reports.booking_trends")
	api.HandleFunc("/reports/{id:[0-9]+}", h.Reports.Show).Methods(http.MethodGet).Name("reports.show")
	api.HandleFunc("/reports/{id:[0-9]+}", h.Reports.Delete).Methods(http.MethodDelete).Name("reports.destroy")
	api.HandleFunc("/reports/{id:[0-9]+}/export", h.Reports.Export).Methods(http.MethodGet).Name("reports.export")

	return router
}

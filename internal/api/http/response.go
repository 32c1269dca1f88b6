package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func okMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps a service error onto its status code and envelope.
// Unclassified errors are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *domain.ValidationError
		authzErr *domain.AuthorizationError
		nf       *domain.NotFoundError
		conflict *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Message: verr.Message, Errors: verr.Fields})
	case errors.As(err, &conflict):
		fail(w, http.StatusUnprocessableEntity, conflict.Message)
	case errors.As(err, &authzErr):
		fail(w, http.StatusForbidden, authzErr.Error())
	case errors.As(err, &nf):
		fail(w, http.StatusNotFound, nf.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(w, http.StatusUnauthorized, "Invalid login credentials")
	case isTokenError(err):
		fail(w, http.StatusUnauthorized, "Unauthenticated.")
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		fail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, security.ErrInvalidToken) ||
		errors.Is(err, security.ErrExpiredToken) ||
		errors.Is(err, security.ErrWrongTokenType) ||
		errors.Is(err, security.ErrRevokedToken)
}

// notFound answers every unmatched /api route.
func notFound(w http.ResponseWriter, r *http.Request) {
	fail(w, http.StatusNotFound, "API endpoint not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

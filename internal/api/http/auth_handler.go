package http

import (
	"net/http"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	Phone                string `json:"phone" validate:"max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name                 *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email                *string `json:"email" validate:"omitempty,email,max=255"`
	Phone                *string `json:"phone" validate:"omitempty,max=20"`
	CurrentPassword      string  `json:"current_password"`
	NewPassword          *string `json:"new_password" validate:"omitempty,min=8"`
	PasswordConfirmation string  `json:"new_password_confirmation"`
}

type tokenResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	verr := bind(r, &req)
	if req.Password != "" && req.Password != req.PasswordConfirmation {
		verr.Add("password", "The password confirmation does not match.")
	}
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	user, token, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "User registered successfully", tokenResponse{User: user, Token: token, TokenType: "Bearer"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Login successful", tokenResponse{User: user, Token: token, TokenType: "Bearer"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), currentClaims(r)); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	verr := bind(r, &req)
	if req.NewPassword != nil && *req.NewPassword != req.PasswordConfirmation {
		verr.Add("new_password", "The new password confirmation does not match.")
	}
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), currentUser(r).ID, service.ProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Profile updated successfully", user)
}

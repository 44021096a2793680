package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/middleware"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// AuthHandler serves registration, login and password management
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login issues an access/refresh token pair
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

// Refresh issues a new access token from a refresh token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, err := h.auth.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}

// ChangePassword replaces the caller's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.UserID, &req); err != nil {
		respondError(w, err)
		return
	}
	respondDetail(w, http.StatusOK, "Password updated successfully.")
}

// ForgotPassword issues a reset token and mails it to the user
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondDetail(w, http.StatusOK, "Reset token sent.")
}

// ResetPassword redeems a reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}
	respondDetail(w, http.StatusOK, "Password reset successful.")
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	record, err := h.auth.GetUser(r.Context(), user.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

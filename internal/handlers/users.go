package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/middleware"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// UserHandler serves user administration endpoints
type UserHandler struct {
	auth *services.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// Create provisions a user account, any role included
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.auth.CreateUser(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// List returns all users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get returns a single user by ID
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.auth.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update modifies a user's email or role
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req models.UserUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.auth.UpdateUser(r.Context(), actor, id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete removes a user
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.auth.DeleteUser(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

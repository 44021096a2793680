package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// CallHandler serves the nurse call lifecycle endpoints
type CallHandler struct {
	calls *services.CallService
}

// NewCallHandler creates a new call handler
func NewCallHandler(calls *services.CallService) *CallHandler {
	return &CallHandler{calls: calls}
}

// Create raises a new call from a device
func (h *CallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CallCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	created, err := h.calls.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Get returns a single call
func (h *CallHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	call, err := h.calls.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// List returns calls, optionally filtered by ?status=
func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	status := models.CallStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, apperr.Validation("status", "Invalid call status."))
		return
	}
	calls, err := h.calls.List(r.Context(), status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calls)
}

// Update applies a partial update to a call
func (h *CallHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.CallUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	call, err := h.calls.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Assign puts a nurse on a call
func (h *CallHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.CallAssignRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	call, err := h.calls.Assign(r.Context(), id, req.NurseID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Resolve closes a call and records the response time
func (h *CallHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.CallResolveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	call, err := h.calls.Resolve(r.Context(), id, req.ResponseTime)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

// Delete removes a call record
func (h *CallHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.calls.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// PatientHandler serves patient occupancy endpoints
type PatientHandler struct {
	patients *services.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// Create admits a patient, optionally onto a bed
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	patient, err := h.patients.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, patient)
}

// Get returns a single patient
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	patient, err := h.patients.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// List returns all patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

// Update modifies a patient, enforcing one patient per bed
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.PatientRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	patient, err := h.patients.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// Delete discharges a patient
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.patients.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

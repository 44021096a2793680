package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// StaffingHandler serves staff teams, nurses and team assignments
type StaffingHandler struct {
	staffing *services.StaffingService
}

// NewStaffingHandler creates a new staffing handler
func NewStaffingHandler(staffing *services.StaffingService) *StaffingHandler {
	return &StaffingHandler{staffing: staffing}
}

// Staff teams

func (h *StaffingHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.StaffTeamRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	team, err := h.staffing.CreateTeam(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (h *StaffingHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	team, err := h.staffing.GetTeam(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *StaffingHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.staffing.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

func (h *StaffingHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.StaffTeamRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	team, err := h.staffing.UpdateTeam(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *StaffingHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.staffing.DeleteTeam(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Nurses

func (h *StaffingHandler) CreateNurse(w http.ResponseWriter, r *http.Request) {
	var req models.NurseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	nurse, err := h.staffing.CreateNurse(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, nurse)
}

func (h *StaffingHandler) GetNurse(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	nurse, err := h.staffing.GetNurse(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nurse)
}

func (h *StaffingHandler) ListNurses(w http.ResponseWriter, r *http.Request) {
	nurses, err := h.staffing.ListNurses(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nurses)
}

func (h *StaffingHandler) UpdateNurse(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.NurseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	nurse, err := h.staffing.UpdateNurse(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nurse)
}

func (h *StaffingHandler) DeleteNurse(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.staffing.DeleteNurse(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Team assignments

func (h *StaffingHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.TeamAssignmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	assignment, err := h.staffing.CreateAssignment(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}

func (h *StaffingHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	assignment, err := h.staffing.GetAssignment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

func (h *StaffingHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.staffing.ListAssignments(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

func (h *StaffingHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.TeamAssignmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	assignment, err := h.staffing.UpdateAssignment(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

func (h *StaffingHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.staffing.DeleteAssignment(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

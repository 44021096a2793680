package handlers

import (
	"net/http"

	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
)

// FacilityHandler serves the hospital topology endpoints
type FacilityHandler struct {
	facility *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facility *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facility: facility}
}

// Hospitals

func (h *FacilityHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req models.HospitalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	hospital, err := h.facility.CreateHospital(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, hospital)
}

func (h *FacilityHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	hospital, err := h.facility.GetHospital(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hospital)
}

func (h *FacilityHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.facility.ListHospitals(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hospitals)
}

func (h *FacilityHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.HospitalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	hospital, err := h.facility.UpdateHospital(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hospital)
}

func (h *FacilityHandler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteHospital(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Buildings

func (h *FacilityHandler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req models.BuildingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	building, err := h.facility.CreateBuilding(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, building)
}

func (h *FacilityHandler) GetBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	building, err := h.facility.GetBuilding(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, building)
}

func (h *FacilityHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.facility.ListBuildings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildings)
}

func (h *FacilityHandler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.BuildingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	building, err := h.facility.UpdateBuilding(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, building)
}

func (h *FacilityHandler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteBuilding(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Floors

func (h *FacilityHandler) CreateFloor(w http.ResponseWriter, r *http.Request) {
	var req models.FloorRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	floor, err := h.facility.CreateFloor(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, floor)
}

func (h *FacilityHandler) GetFloor(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	floor, err := h.facility.GetFloor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, floor)
}

func (h *FacilityHandler) ListFloors(w http.ResponseWriter, r *http.Request) {
	floors, err := h.facility.ListFloors(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, floors)
}

func (h *FacilityHandler) UpdateFloor(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.FloorRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	floor, err := h.facility.UpdateFloor(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, floor)
}

func (h *FacilityHandler) DeleteFloor(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteFloor(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Wards

func (h *FacilityHandler) CreateWard(w http.ResponseWriter, r *http.Request) {
	var req models.WardRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	ward, err := h.facility.CreateWard(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, ward)
}

func (h *FacilityHandler) GetWard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	ward, err := h.facility.GetWard(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ward)
}

func (h *FacilityHandler) ListWards(w http.ResponseWriter, r *http.Request) {
	wards, err := h.facility.ListWards(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wards)
}

func (h *FacilityHandler) UpdateWard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.WardRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	ward, err := h.facility.UpdateWard(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ward)
}

func (h *FacilityHandler) DeleteWard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteWard(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Beds

func (h *FacilityHandler) CreateBed(w http.ResponseWriter, r *http.Request) {
	var req models.BedRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	bed, err := h.facility.CreateBed(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, bed)
}

func (h *FacilityHandler) GetBed(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	bed, err := h.facility.GetBed(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bed)
}

func (h *FacilityHandler) ListBeds(w http.ResponseWriter, r *http.Request) {
	beds, err := h.facility.ListBeds(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, beds)
}

func (h *FacilityHandler) UpdateBed(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.BedRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	bed, err := h.facility.UpdateBed(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bed)
}

func (h *FacilityHandler) DeleteBed(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteBed(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Devices

func (h *FacilityHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req models.DeviceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	device, err := h.facility.CreateDevice(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, device)
}

func (h *FacilityHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	device, err := h.facility.GetDevice(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, device)
}

func (h *FacilityHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.facility.ListDevices(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

func (h *FacilityHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.DeviceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	device, err := h.facility.UpdateDevice(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, device)
}

func (h *FacilityHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.facility.DeleteDevice(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

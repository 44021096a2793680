package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/models"
)

// FacilityStore is the persistence surface for the facility hierarchy
type FacilityStore interface {
	CreateHospital(ctx context.Context, h *models.Hospital) error
	GetHospital(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	UpdateHospital(ctx context.Context, h *models.Hospital) error
	DeleteHospital(ctx context.Context, id uuid.UUID) error
	CountHospitalsByAdmin(ctx context.Context, nurseID uuid.UUID, exclude uuid.UUID) (int64, error)

	CreateBuilding(ctx context.Context, b *models.Building) error
	GetBuilding(ctx context.Context, id uuid.UUID) (*models.Building, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
	UpdateBuilding(ctx context.Context, b *models.Building) error
	DeleteBuilding(ctx context.Context, id uuid.UUID) error

	CreateFloor(ctx context.Context, f *models.Floor) error
	GetFloor(ctx context.Context, id uuid.UUID) (*models.Floor, error)
	ListFloors(ctx context.Context) ([]models.Floor, error)
	UpdateFloor(ctx context.Context, f *models.Floor) error
	DeleteFloor(ctx context.Context, id uuid.UUID) error

	CreateWard(ctx context.Context, w *models.Ward) error
	GetWard(ctx context.Context, id uuid.UUID) (*models.Ward, error)
	ListWards(ctx context.Context) ([]models.Ward, error)
	UpdateWard(ctx context.Context, w *models.Ward) error
	DeleteWard(ctx context.Context, id uuid.UUID) error

	CreateBed(ctx context.Context, b *models.Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*models.Bed, error)
	ListBeds(ctx context.Context) ([]models.Bed, error)
	UpdateBed(ctx context.Context, b *models.Bed) error
	DeleteBed(ctx context.Context, id uuid.UUID) error

	CreateDevice(ctx context.Context, d *models.Device) error
	GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
	UpdateDevice(ctx context.Context, d *models.Device) error
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}

// NurseLookup resolves nurse references
type NurseLookup interface {
	GetNurse(ctx context.Context, id uuid.UUID) (*models.Nurse, error)
}

// FacilityService handles the hospital → building → floor → ward →
// bed → device containment chain
type FacilityService struct {
	store  FacilityStore
	nurses NurseLookup
}

// NewFacilityService creates a new facility service
func NewFacilityService(store FacilityStore, nurses NurseLookup) *FacilityService {
	return &FacilityService{store: store, nurses: nurses}
}

func (s *FacilityService) checkNurse(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.nurses.GetNurse(ctx, *id); err != nil {
		return err
	}
	return nil
}

// checkAdminFree ensures a nurse is not already the admin of a
// different hospital. One nurse runs at most one hospital.
func (s *FacilityService) checkAdminFree(ctx context.Context, adminID *uuid.UUID, exclude uuid.UUID) error {
	if adminID == nil {
		return nil
	}
	count, err := s.store.CountHospitalsByAdmin(ctx, *adminID, exclude)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("admin", "Nurse is already the admin of another hospital.")
	}
	return nil
}

// --- Hospitals ---

// CreateHospital creates a hospital, optionally managed by a nurse
func (s *FacilityService) CreateHospital(ctx context.Context, req *models.HospitalRequest) (*models.Hospital, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if err := s.checkNurse(ctx, req.AdminID); err != nil {
		return nil, err
	}
	if err := s.checkAdminFree(ctx, req.AdminID, uuid.Nil); err != nil {
		return nil, err
	}
	h := &models.Hospital{Name: req.Name, Address: req.Address, AdminID: req.AdminID}
	if err := s.store.CreateHospital(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHospital retrieves a hospital
func (s *FacilityService) GetHospital(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	return s.store.GetHospital(ctx, id)
}

// ListHospitals retrieves all hospitals
func (s *FacilityService) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	return s.store.ListHospitals(ctx)
}

// UpdateHospital applies changes to a hospital
func (s *FacilityService) UpdateHospital(ctx context.Context, id uuid.UUID, req *models.HospitalRequest) (*models.Hospital, error) {
	h, err := s.store.GetHospital(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if err := s.checkNurse(ctx, req.AdminID); err != nil {
		return nil, err
	}
	if err := s.checkAdminFree(ctx, req.AdminID, id); err != nil {
		return nil, err
	}
	h.Name = req.Name
	h.Address = req.Address
	h.AdminID = req.AdminID
	if err := s.store.UpdateHospital(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHospital removes a hospital and all its descendants
func (s *FacilityService) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteHospital(ctx, id)
}

// --- Buildings ---

// CreateBuilding creates a building under a hospital
func (s *FacilityService) CreateBuilding(ctx context.Context, req *models.BuildingRequest) (*models.Building, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if _, err := s.store.GetHospital(ctx, req.HospitalID); err != nil {
		return nil, err
	}
	if err := s.checkNurse(ctx, req.ManagerID); err != nil {
		return nil, err
	}
	b := &models.Building{Name: req.Name, HospitalID: req.HospitalID, ManagerID: req.ManagerID}
	if err := s.store.CreateBuilding(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBuilding retrieves a building
func (s *FacilityService) GetBuilding(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return s.store.GetBuilding(ctx, id)
}

// ListBuildings retrieves all buildings
func (s *FacilityService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return s.store.ListBuildings(ctx)
}

// UpdateBuilding applies changes to a building
func (s *FacilityService) UpdateBuilding(ctx context.Context, id uuid.UUID, req *models.BuildingRequest) (*models.Building, error) {
	b, err := s.store.GetBuilding(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if _, err := s.store.GetHospital(ctx, req.HospitalID); err != nil {
		return nil, err
	}
	if err := s.checkNurse(ctx, req.ManagerID); err != nil {
		return nil, err
	}
	b.Name = req.Name
	b.HospitalID = req.HospitalID
	b.ManagerID = req.ManagerID
	if err := s.store.UpdateBuilding(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBuilding removes a building and all its descendants
func (s *FacilityService) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteBuilding(ctx, id)
}

// --- Floors ---

// CreateFloor creates a floor under a building
func (s *FacilityService) CreateFloor(ctx context.Context, req *models.FloorRequest) (*models.Floor, error) {
	if _, err := s.store.GetBuilding(ctx, req.BuildingID); err != nil {
		return nil, err
	}
	if err := s.checkNurse(ctx, req.ManagerID); err != nil {
		return nil, err
	}
	f := &models.Floor{Number: req.Number, BuildingID: req.BuildingID, ManagerID: req.ManagerID}
	if err := s.store.CreateFloor(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFloor retrieves a floor
func (s *FacilityService) GetFloor(ctx context.Context, id uuid.UUID) (*models.Floor, error) {
	return s.store.GetFloor(ctx, id)
}

// ListFloors retrieves all floors
func (s *FacilityService) ListFloors(ctx context.Context) ([]models.Floor, error) {
	return s.store.ListFloors(ctx)
}

// UpdateFloor applies changes to a floor
func (s *FacilityService) UpdateFloor(ctx context.Context, id uuid.UUID, req *models.FloorRequest) (*models.Floor, error) {
	f, err := s.store.GetFloor(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetBuilding(ctx, req.BuildingID); err != nil {
		return nil, err
	}
	if err := s.checkNurse(ctx, req.ManagerID); err != nil {
		return nil, err
	}
	f.Number = req.Number
	f.BuildingID = req.BuildingID
	f.ManagerID = req.ManagerID
	if err := s.store.UpdateFloor(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFloor removes a floor and all its descendants
func (s *FacilityService) DeleteFloor(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteFloor(ctx, id)
}

// --- Wards ---

// CreateWard creates a ward under a floor
func (s *FacilityService) CreateWard(ctx context.Context, req *models.WardRequest) (*models.Ward, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if _, err := s.store.GetFloor(ctx, req.FloorID); err != nil {
		return nil, err
	}
	w := &models.Ward{Name: req.Name, FloorID: req.FloorID}
	if err := s.store.CreateWard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWard retrieves a ward
func (s *FacilityService) GetWard(ctx context.Context, id uuid.UUID) (*models.Ward, error) {
	return s.store.GetWard(ctx, id)
}

// ListWards retrieves all wards
func (s *FacilityService) ListWards(ctx context.Context) ([]models.Ward, error) {
	return s.store.ListWards(ctx)
}

// UpdateWard applies changes to a ward
func (s *FacilityService) UpdateWard(ctx context.Context, id uuid.UUID, req *models.WardRequest) (*models.Ward, error) {
	w, err := s.store.GetWard(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if _, err := s.store.GetFloor(ctx, req.FloorID); err != nil {
		return nil, err
	}
	w.Name = req.Name
	w.FloorID = req.FloorID
	if err := s.store.UpdateWard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWard removes a ward and all its descendants
func (s *FacilityService) DeleteWard(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteWard(ctx, id)
}

// --- Beds ---

func (s *FacilityService) resolveNurses(ctx context.Context, ids []uuid.UUID) ([]models.Nurse, error) {
	nurses := make([]models.Nurse, 0, len(ids))
	for _, id := range ids {
		n, err := s.nurses.GetNurse(ctx, id)
		if err != nil {
			return nil, err
		}
		nurses = append(nurses, *n)
	}
	return nurses, nil
}

// CreateBed creates a bed under a ward with optional nurse assignments
func (s *FacilityService) CreateBed(ctx context.Context, req *models.BedRequest) (*models.Bed, error) {
	if req.Number == "" {
		return nil, apperr.Validation("number", "Number is required.")
	}
	if _, err := s.store.GetWard(ctx, req.WardID); err != nil {
		return nil, err
	}
	nurses, err := s.resolveNurses(ctx, req.NurseIDs)
	if err != nil {
		return nil, err
	}
	b := &models.Bed{Number: req.Number, WardID: req.WardID, Nurses: nurses}
	if err := s.store.CreateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBed retrieves a bed
func (s *FacilityService) GetBed(ctx context.Context, id uuid.UUID) (*models.Bed, error) {
	return s.store.GetBed(ctx, id)
}

// ListBeds retrieves all beds
func (s *FacilityService) ListBeds(ctx context.Context) ([]models.Bed, error) {
	return s.store.ListBeds(ctx)
}

// UpdateBed applies changes to a bed, replacing nurse assignments
func (s *FacilityService) UpdateBed(ctx context.Context, id uuid.UUID, req *models.BedRequest) (*models.Bed, error) {
	b, err := s.store.GetBed(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Number == "" {
		return nil, apperr.Validation("number", "Number is required.")
	}
	if _, err := s.store.GetWard(ctx, req.WardID); err != nil {
		return nil, err
	}
	nurses, err := s.resolveNurses(ctx, req.NurseIDs)
	if err != nil {
		return nil, err
	}
	b.Number = req.Number
	b.WardID = req.WardID
	b.Nurses = nurses
	if err := s.store.UpdateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBed removes a bed, its devices and calls; the patient survives
func (s *FacilityService) DeleteBed(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteBed(ctx, id)
}

// --- Devices ---

// CreateDevice creates a device attached to a bed
func (s *FacilityService) CreateDevice(ctx context.Context, req *models.DeviceRequest) (*models.Device, error) {
	if req.SerialNumber == "" {
		return nil, apperr.Validation("serial_number", "Serial number is required.")
	}
	if _, err := s.store.GetBed(ctx, req.BedID); err != nil {
		return nil, err
	}
	d := &models.Device{SerialNumber: req.SerialNumber, BedID: req.BedID}
	if err := s.store.CreateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDevice retrieves a device
func (s *FacilityService) GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	return s.store.GetDevice(ctx, id)
}

// ListDevices retrieves all devices
func (s *FacilityService) ListDevices(ctx context.Context) ([]models.Device, error) {
	return s.store.ListDevices(ctx)
}

// UpdateDevice applies changes to a device
func (s *FacilityService) UpdateDevice(ctx context.Context, id uuid.UUID, req *models.DeviceRequest) (*models.Device, error) {
	d, err := s.store.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SerialNumber == "" {
		return nil, apperr.Validation("serial_number", "Serial number is required.")
	}
	if _, err := s.store.GetBed(ctx, req.BedID); err != nil {
		return nil, err
	}
	d.SerialNumber = req.SerialNumber
	d.BedID = req.BedID
	if err := s.store.UpdateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDevice removes a device and the calls it raised
func (s *FacilityService) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteDevice(ctx, id)
}

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/models"
)

// PatientStore is the persistence surface for patients
type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	CountByBed(ctx context.Context, bedID uuid.UUID, exclude uuid.UUID) (int64, error)
	Update(ctx context.Context, p *models.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BedLookup resolves bed references for occupancy checks
type BedLookup interface {
	GetBed(ctx context.Context, id uuid.UUID) (*models.Bed, error)
}

// PatientService handles patient records and bed occupancy
type PatientService struct {
	store PatientStore
	beds  BedLookup
}

// NewPatientService creates a new patient service
func NewPatientService(store PatientStore, beds BedLookup) *PatientService {
	return &PatientService{store: store, beds: beds}
}

// checkOccupancy verifies the bed exists and holds no other patient
func (s *PatientService) checkOccupancy(ctx context.Context, bedID uuid.UUID, exclude uuid.UUID) error {
	if _, err := s.beds.GetBed(ctx, bedID); err != nil {
		return err
	}
	count, err := s.store.CountByBed(ctx, bedID, exclude)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("bed is already occupied")
	}
	return nil
}

// Create registers a patient, optionally placing them in a bed
func (s *PatientService) Create(ctx context.Context, req *models.PatientRequest) (*models.Patient, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if req.Age < 0 {
		return nil, apperr.Validation("age", "Age cannot be negative.")
	}
	if req.BedID != nil {
		if err := s.checkOccupancy(ctx, *req.BedID, uuid.Nil); err != nil {
			return nil, err
		}
	}
	p := &models.Patient{Name: req.Name, Age: req.Age, Gender: req.Gender, BedID: req.BedID}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a patient
func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all patients
func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	return s.store.List(ctx)
}

// Update applies changes to a patient; setting bed to null releases the
// bed without deleting the patient
func (s *PatientService) Update(ctx context.Context, id uuid.UUID, req *models.PatientRequest) (*models.Patient, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if req.Age < 0 {
		return nil, apperr.Validation("age", "Age cannot be negative.")
	}
	if req.BedID != nil {
		if err := s.checkOccupancy(ctx, *req.BedID, id); err != nil {
			return nil, err
		}
	}
	p.Name = req.Name
	p.Age = req.Age
	p.Gender = req.Gender
	p.BedID = req.BedID
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a patient record
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

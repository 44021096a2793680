package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"github.com/otcheredev/nurse-call-service/internal/models"
)

// PatientRepository handles patient database operations
type PatientRepository struct{}

// NewPatientRepository creates a new patient repository
func NewPatientRepository() *PatientRepository {
	return &PatientRepository{}
}

// Create creates a new patient
func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) error {
	if err := database.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// GetByID retrieves a patient by ID
func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var p models.Patient
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrapNotFound(err, "patient")
	}
	return &p, nil
}

// List retrieves all patients
func (r *PatientRepository) List(ctx context.Context) ([]models.Patient, error) {
	var ps []models.Patient
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return ps, nil
}

// CountByBed counts patients occupying a bed, excluding one patient ID
// (pass uuid.Nil to count all occupants)
func (r *PatientRepository) CountByBed(ctx context.Context, bedID uuid.UUID, exclude uuid.UUID) (int64, error) {
	var count int64
	query := database.DB.WithContext(ctx).Model(&models.Patient{}).Where("bed_id = ?", bedID)
	if exclude != uuid.Nil {
		query = query.Where("id != ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bed occupancy: %w", err)
	}
	return count, nil
}

// Update persists changes to a patient
func (r *PatientRepository) Update(ctx context.Context, p *models.Patient) error {
	if err := database.DB.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

// Delete removes a patient
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Patient{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("patient")
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"github.com/otcheredev/nurse-call-service/internal/models"
)

// CallRepository handles call database operations
type CallRepository struct{}

// NewCallRepository creates a new call repository
func NewCallRepository() *CallRepository {
	return &CallRepository{}
}

// Create creates a new call
func (r *CallRepository) Create(ctx context.Context, c *models.Call) error {
	if err := database.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// GetByID retrieves a call by ID
func (r *CallRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Call, error) {
	var c models.Call
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, wrapNotFound(err, "call")
	}
	return &c, nil
}

// List retrieves calls, optionally filtered by status
func (r *CallRepository) List(ctx context.Context, status models.CallStatus) ([]models.Call, error) {
	var cs []models.Call
	query := database.DB.WithContext(ctx).Order("call_time DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return cs, nil
}

// Update persists changes to a call
func (r *CallRepository) Update(ctx context.Context, c *models.Call) error {
	if err := database.DB.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to update call: %w", err)
	}
	return nil
}

// Delete removes a call
func (r *CallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Call{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete call: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("call")
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"gorm.io/gorm"
)

// StaffingRepository handles staff team, nurse and team assignment
// database operations. Deleting a nurse never deletes calls: the call
// keeps its history with the nurse reference cleared.
type StaffingRepository struct{}

// NewStaffingRepository creates a new staffing repository
func NewStaffingRepository() *StaffingRepository {
	return &StaffingRepository{}
}

// --- Staff teams ---

// CreateTeam creates a new staff team
func (r *StaffingRepository) CreateTeam(ctx context.Context, t *models.StaffTeam) error {
	if err := database.DB.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create staff team: %w", err)
	}
	return nil
}

// GetTeam retrieves a staff team by ID
func (r *StaffingRepository) GetTeam(ctx context.Context, id uuid.UUID) (*models.StaffTeam, error) {
	var t models.StaffTeam
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, wrapNotFound(err, "staff team")
	}
	return &t, nil
}

// ListTeams retrieves all staff teams
func (r *StaffingRepository) ListTeams(ctx context.Context) ([]models.StaffTeam, error) {
	var ts []models.StaffTeam
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&ts).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff teams: %w", err)
	}
	return ts, nil
}

// UpdateTeam persists changes to a staff team
func (r *StaffingRepository) UpdateTeam(ctx context.Context, t *models.StaffTeam) error {
	if err := database.DB.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to update staff team: %w", err)
	}
	return nil
}

// DeleteTeam removes a staff team, its nurses and its assignments.
// Nurses are removed with set-null semantics on everything that
// references them.
func (r *StaffingRepository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nurseIDs []uuid.UUID
		if err := tx.Model(&models.Nurse{}).Where("team_id = ?", id).Pluck("id", &nurseIDs).Error; err != nil {
			return err
		}
		if err := deleteNursesTx(tx, nurseIDs); err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.StaffTeam{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("staff team")
		}
		return nil
	})
	if err != nil {
		return passthrough(err, "delete staff team")
	}
	return nil
}

// --- Nurses ---

// CreateNurse creates a new nurse
func (r *StaffingRepository) CreateNurse(ctx context.Context, n *models.Nurse) error {
	if err := database.DB.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create nurse: %w", err)
	}
	return nil
}

// GetNurse retrieves a nurse by ID
func (r *StaffingRepository) GetNurse(ctx context.Context, id uuid.UUID) (*models.Nurse, error) {
	var n models.Nurse
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, wrapNotFound(err, "nurse")
	}
	return &n, nil
}

// ListNurses retrieves all nurses
func (r *StaffingRepository) ListNurses(ctx context.Context) ([]models.Nurse, error) {
	var ns []models.Nurse
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&ns).Error; err != nil {
		return nil, fmt.Errorf("failed to list nurses: %w", err)
	}
	return ns, nil
}

// UpdateNurse persists changes to a nurse
func (r *StaffingRepository) UpdateNurse(ctx context.Context, n *models.Nurse) error {
	if err := database.DB.WithContext(ctx).Save(n).Error; err != nil {
		return fmt.Errorf("failed to update nurse: %w", err)
	}
	return nil
}

// DeleteNurse removes a nurse. Calls keep their history with the nurse
// cleared; manager references and bed assignments are detached.
func (r *StaffingRepository) DeleteNurse(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteNursesTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return passthrough(err, "delete nurse")
	}
	return nil
}

// --- Team assignments ---

// CreateAssignment creates a new team assignment
func (r *StaffingRepository) CreateAssignment(ctx context.Context, a *models.TeamAssignment) error {
	if err := database.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create team assignment: %w", err)
	}
	return nil
}

// GetAssignment retrieves a team assignment by ID
func (r *StaffingRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*models.TeamAssignment, error) {
	var a models.TeamAssignment
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, wrapNotFound(err, "team assignment")
	}
	return &a, nil
}

// GetAssignmentByWard retrieves the team assignment covering a ward
func (r *StaffingRepository) GetAssignmentByWard(ctx context.Context, wardID uuid.UUID) (*models.TeamAssignment, error) {
	var a models.TeamAssignment
	if err := database.DB.WithContext(ctx).
		Where("ward_id = ?", wardID).
		Order("created_at DESC").
		First(&a).Error; err != nil {
		return nil, wrapNotFound(err, "team assignment")
	}
	return &a, nil
}

// ListAssignments retrieves all team assignments
func (r *StaffingRepository) ListAssignments(ctx context.Context) ([]models.TeamAssignment, error) {
	var as []models.TeamAssignment
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&as).Error; err != nil {
		return nil, fmt.Errorf("failed to list team assignments: %w", err)
	}
	return as, nil
}

// UpdateAssignment persists changes to a team assignment
func (r *StaffingRepository) UpdateAssignment(ctx context.Context, a *models.TeamAssignment) error {
	if err := database.DB.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to update team assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes a team assignment
func (r *StaffingRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	res := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.TeamAssignment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete team assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("team assignment")
	}
	return nil
}

// deleteNursesTx applies the nurse delete policy inside a transaction:
// set-null on calls and manager references, detach bed assignments,
// then remove the nurse rows.
func deleteNursesTx(tx *gorm.DB, nurseIDs []uuid.UUID) error {
	if len(nurseIDs) == 0 {
		return nil
	}
	if err := tx.Model(&models.Call{}).Where("nurse_id IN ?", nurseIDs).Update("nurse_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Hospital{}).Where("admin_id IN ?", nurseIDs).Update("admin_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Building{}).Where("manager_id IN ?", nurseIDs).Update("manager_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Floor{}).Where("manager_id IN ?", nurseIDs).Update("manager_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM bed_nurses WHERE nurse_id IN ?", nurseIDs).Error; err != nil {
		return err
	}
	res := tx.Where("id IN ?", nurseIDs).Delete(&models.Nurse{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("nurse")
	}
	return nil
}

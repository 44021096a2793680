package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/cache"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/rs/zerolog/log"
)

// StaffingStore is the persistence surface for teams, nurses and
// assignments
type StaffingStore interface {
	CreateTeam(ctx context.Context, t *models.StaffTeam) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.StaffTeam, error)
	ListTeams(ctx context.Context) ([]models.StaffTeam, error)
	UpdateTeam(ctx context.Context, t *models.StaffTeam) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error

	CreateNurse(ctx context.Context, n *models.Nurse) error
	GetNurse(ctx context.Context, id uuid.UUID) (*models.Nurse, error)
	ListNurses(ctx context.Context) ([]models.Nurse, error)
	UpdateNurse(ctx context.Context, n *models.Nurse) error
	DeleteNurse(ctx context.Context, id uuid.UUID) error

	CreateAssignment(ctx context.Context, a *models.TeamAssignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.TeamAssignment, error)
	GetAssignmentByWard(ctx context.Context, wardID uuid.UUID) (*models.TeamAssignment, error)
	ListAssignments(ctx context.Context) ([]models.TeamAssignment, error)
	UpdateAssignment(ctx context.Context, a *models.TeamAssignment) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}

// WardLookup resolves ward references for assignment validation
type WardLookup interface {
	GetWard(ctx context.Context, id uuid.UUID) (*models.Ward, error)
	GetFloor(ctx context.Context, id uuid.UUID) (*models.Floor, error)
}

// StaffingService handles teams, nurses and ward coverage
type StaffingService struct {
	store    StaffingStore
	facility WardLookup
	cache    cache.Cache
}

// NewStaffingService creates a new staffing service
func NewStaffingService(store StaffingStore, facility WardLookup, c cache.Cache) *StaffingService {
	return &StaffingService{store: store, facility: facility, cache: c}
}

// invalidateRouting drops cached ward→team lookups after coverage
// changes. Failures only make the next lookup slower.
func (s *StaffingService) invalidateRouting(ctx context.Context) {
	if err := s.cache.Clear(ctx, cache.RoutingPattern()); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate routing cache")
	}
}

// --- Teams ---

// CreateTeam creates a staff team
func (s *StaffingService) CreateTeam(ctx context.Context, req *models.StaffTeamRequest) (*models.StaffTeam, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	t := &models.StaffTeam{Name: req.Name}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTeam retrieves a staff team
func (s *StaffingService) GetTeam(ctx context.Context, id uuid.UUID) (*models.StaffTeam, error) {
	return s.store.GetTeam(ctx, id)
}

// ListTeams retrieves all staff teams
func (s *StaffingService) ListTeams(ctx context.Context) ([]models.StaffTeam, error) {
	return s.store.ListTeams(ctx)
}

// UpdateTeam applies changes to a staff team
func (s *StaffingService) UpdateTeam(ctx context.Context, id uuid.UUID, req *models.StaffTeamRequest) (*models.StaffTeam, error) {
	t, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	t.Name = req.Name
	if err := s.store.UpdateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTeam removes a team, its nurses and its assignments
func (s *StaffingService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.invalidateRouting(ctx)
	return nil
}

// --- Nurses ---

// CreateNurse creates a nurse in a team
func (s *StaffingService) CreateNurse(ctx context.Context, req *models.NurseRequest) (*models.Nurse, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if req.NurseID == "" {
		return nil, apperr.Validation("nurse_id", "Nurse ID is required.")
	}
	if _, err := s.store.GetTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}
	n := &models.Nurse{NurseID: req.NurseID, Name: req.Name, TeamID: req.TeamID}
	if err := s.store.CreateNurse(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetNurse retrieves a nurse
func (s *StaffingService) GetNurse(ctx context.Context, id uuid.UUID) (*models.Nurse, error) {
	return s.store.GetNurse(ctx, id)
}

// ListNurses retrieves all nurses
func (s *StaffingService) ListNurses(ctx context.Context) ([]models.Nurse, error) {
	return s.store.ListNurses(ctx)
}

// UpdateNurse applies changes to a nurse
func (s *StaffingService) UpdateNurse(ctx context.Context, id uuid.UUID, req *models.NurseRequest) (*models.Nurse, error) {
	n, err := s.store.GetNurse(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("name", "Name is required.")
	}
	if req.NurseID == "" {
		return nil, apperr.Validation("nurse_id", "Nurse ID is required.")
	}
	if _, err := s.store.GetTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}
	n.NurseID = req.NurseID
	n.Name = req.Name
	n.TeamID = req.TeamID
	if err := s.store.UpdateNurse(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteNurse removes a nurse; calls referencing it keep their history
// with the nurse cleared
func (s *StaffingService) DeleteNurse(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteNurse(ctx, id)
}

// --- Assignments ---

func (s *StaffingService) validateAssignment(ctx context.Context, req *models.TeamAssignmentRequest) error {
	ward, err := s.facility.GetWard(ctx, req.WardID)
	if err != nil {
		return err
	}
	if _, err := s.facility.GetFloor(ctx, req.FloorID); err != nil {
		return err
	}
	if _, err := s.store.GetTeam(ctx, req.TeamID); err != nil {
		return err
	}
	// The floor reference is stored independently of the ward but may
	// not contradict it
	if ward.FloorID != req.FloorID {
		return apperr.Validation("floor", "Ward does not belong to the given floor.")
	}
	return nil
}

// CreateAssignment binds a team to a ward/floor pair
func (s *StaffingService) CreateAssignment(ctx context.Context, req *models.TeamAssignmentRequest) (*models.TeamAssignment, error) {
	if err := s.validateAssignment(ctx, req); err != nil {
		return nil, err
	}
	a := &models.TeamAssignment{WardID: req.WardID, FloorID: req.FloorID, TeamID: req.TeamID}
	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.invalidateRouting(ctx)
	return a, nil
}

// GetAssignment retrieves a team assignment
func (s *StaffingService) GetAssignment(ctx context.Context, id uuid.UUID) (*models.TeamAssignment, error) {
	return s.store.GetAssignment(ctx, id)
}

// ListAssignments retrieves all team assignments
func (s *StaffingService) ListAssignments(ctx context.Context) ([]models.TeamAssignment, error) {
	return s.store.ListAssignments(ctx)
}

// UpdateAssignment applies changes to a team assignment
func (s *StaffingService) UpdateAssignment(ctx context.Context, id uuid.UUID, req *models.TeamAssignmentRequest) (*models.TeamAssignment, error) {
	a, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignment(ctx, req); err != nil {
		return nil, err
	}
	a.WardID = req.WardID
	a.FloorID = req.FloorID
	a.TeamID = req.TeamID
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.invalidateRouting(ctx)
	return a, nil
}

// DeleteAssignment removes a team assignment
func (s *StaffingService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	s.invalidateRouting(ctx)
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/cache"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/rs/zerolog/log"
)

// CallStore is the persistence surface for calls
type CallStore interface {
	Create(ctx context.Context, c *models.Call) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Call, error)
	List(ctx context.Context, status models.CallStatus) ([]models.Call, error)
	Update(ctx context.Context, c *models.Call) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeviceLookup resolves the device and bed a call is raised against
type DeviceLookup interface {
	GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error)
	GetBed(ctx context.Context, id uuid.UUID) (*models.Bed, error)
}

// RoutingStore resolves the team responsible for a ward
type RoutingStore interface {
	GetAssignmentByWard(ctx context.Context, wardID uuid.UUID) (*models.TeamAssignment, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.StaffTeam, error)
	GetNurse(ctx context.Context, id uuid.UUID) (*models.Nurse, error)
}

// CallService handles the call lifecycle: raised → accepted → resolved
type CallService struct {
	calls    CallStore
	facility DeviceLookup
	staffing RoutingStore
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewCallService creates a new call service
func NewCallService(calls CallStore, facility DeviceLookup, staffing RoutingStore, c cache.Cache, cacheTTL time.Duration) *CallService {
	return &CallService{
		calls:    calls,
		facility: facility,
		staffing: staffing,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// Create raises a call from a device. The responsible team is resolved
// from the ward's assignment; the lookup is advisory and no nurse is
// assigned automatically.
func (s *CallService) Create(ctx context.Context, req *models.CallCreateRequest) (*models.CallCreated, error) {
	device, err := s.facility.GetDevice(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}

	callTime := time.Now().UTC()
	if req.CallTime != nil {
		callTime = req.CallTime.UTC()
	}

	call := &models.Call{
		DeviceID: device.ID,
		BedID:    device.BedID,
		CallTime: callTime,
		Status:   models.CallStatusRaised,
	}
	if err := s.calls.Create(ctx, call); err != nil {
		return nil, err
	}
	callsCreated.Inc()

	team := s.responsibleTeam(ctx, device.BedID)
	return &models.CallCreated{Call: call, ResponsibleTeam: team}, nil
}

// responsibleTeam resolves the team covering the ward of a bed, using
// the cache to avoid hitting the assignment table on every call.
// Routing is advisory: a missing assignment is not an error.
func (s *CallService) responsibleTeam(ctx context.Context, bedID uuid.UUID) *models.StaffTeam {
	bed, err := s.facility.GetBed(ctx, bedID)
	if err != nil {
		log.Warn().Err(err).Str("bed_id", bedID.String()).Msg("Failed to resolve bed for call routing")
		return nil
	}

	key := cache.RoutingKey(bed.WardID.String())
	if raw, err := s.cache.Get(ctx, key); err == nil {
		if teamID, err := uuid.ParseBytes(raw); err == nil {
			if team, err := s.staffing.GetTeam(ctx, teamID); err == nil {
				return team
			}
		}
	}

	assignment, err := s.staffing.GetAssignmentByWard(ctx, bed.WardID)
	if err != nil {
		return nil
	}
	team, err := s.staffing.GetTeam(ctx, assignment.TeamID)
	if err != nil {
		return nil
	}

	if err := s.cache.Set(ctx, key, []byte(team.ID.String()), s.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache call routing lookup")
	}
	return team
}

// Get retrieves a call
func (s *CallService) Get(ctx context.Context, id uuid.UUID) (*models.Call, error) {
	return s.calls.GetByID(ctx, id)
}

// List retrieves calls, optionally filtered by status
func (s *CallService) List(ctx context.Context, status models.CallStatus) ([]models.Call, error) {
	if status != "" {
		switch status {
		case models.CallStatusRaised, models.CallStatusAccepted, models.CallStatusResolved:
		default:
			return nil, apperr.Validation("status", "Unknown status.")
		}
	}
	return s.calls.List(ctx, status)
}

// Assign claims a call for a nurse and marks it accepted
func (s *CallService) Assign(ctx context.Context, id, nurseID uuid.UUID) (*models.Call, error) {
	call, err := s.calls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status == models.CallStatusResolved {
		return nil, apperr.InvalidState("call is already resolved")
	}
	if _, err := s.staffing.GetNurse(ctx, nurseID); err != nil {
		return nil, err
	}

	call.NurseID = &nurseID
	call.Status = models.CallStatusAccepted
	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

// Resolve closes a call. A call with no assigned nurse cannot be
// resolved, and the response time may not precede the call time.
func (s *CallService) Resolve(ctx context.Context, id uuid.UUID, responseTime *time.Time) (*models.Call, error) {
	call, err := s.calls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status == models.CallStatusResolved {
		return nil, apperr.InvalidState("call is already resolved")
	}
	if call.NurseID == nil {
		return nil, apperr.InvalidState("call has no assigned nurse")
	}

	rt := time.Now().UTC()
	if responseTime != nil {
		rt = responseTime.UTC()
	}
	if rt.Before(call.CallTime) {
		return nil, apperr.Validation("response_time", "Response time cannot precede call time.")
	}

	call.ResponseTime = &rt
	call.Status = models.CallStatusResolved
	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}

	callsResolved.Inc()
	callResponseSeconds.Observe(rt.Sub(call.CallTime).Seconds())
	return call, nil
}

// Update applies a partial update, funneling nurse assignment and
// resolution through the lifecycle rules
func (s *CallService) Update(ctx context.Context, id uuid.UUID, req *models.CallUpdateRequest) (*models.Call, error) {
	call, err := s.calls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NurseID != nil {
		call, err = s.Assign(ctx, id, *req.NurseID)
		if err != nil {
			return nil, err
		}
	}
	if req.ResponseTime != nil {
		call, err = s.Resolve(ctx, id, req.ResponseTime)
		if err != nil {
			return nil, err
		}
	}
	if req.Status != nil && *req.Status != call.Status {
		return nil, s.validateTransition(call, *req.Status)
	}
	return call, nil
}

// validateTransition rejects explicit status writes that skip the
// lifecycle; legal transitions are driven by assignment and resolution
func (s *CallService) validateTransition(call *models.Call, target models.CallStatus) error {
	switch target {
	case models.CallStatusRaised, models.CallStatusAccepted, models.CallStatusResolved:
	default:
		return apperr.Validation("status", "Unknown status.")
	}
	if target == models.CallStatusAccepted && call.NurseID == nil {
		return apperr.InvalidState("call has no assigned nurse")
	}
	if target == models.CallStatusResolved && call.ResponseTime == nil {
		return apperr.InvalidState("call has no response time")
	}
	return apperr.InvalidState("status does not match call state")
}

// Delete removes a call
func (s *CallService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.calls.Delete(ctx, id)
}

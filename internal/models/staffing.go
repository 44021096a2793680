package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffTeam is a named group of nurses
type StaffTeam struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StaffTeam) TableName() string { return "staff_teams" }

// BeforeCreate hook
func (s *StaffTeam) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Nurse belongs to a staff team and is cascade-deleted with it
type Nurse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	NurseID   string    `gorm:"type:varchar(100);not null" json:"nurse_id"` // staff badge number
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index" json:"team"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Nurse) TableName() string { return "nurses" }

// BeforeCreate hook
func (n *Nurse) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TeamAssignment binds a staff team to a ward on a floor. The ward's
// floor must match the assignment's floor.
type TeamAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WardID    uuid.UUID `gorm:"type:uuid;not null;index" json:"ward"`
	FloorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"floor"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index" json:"team"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamAssignment) TableName() string { return "team_assignments" }

// BeforeCreate hook
func (t *TeamAssignment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// StaffTeamRequest is the create/update payload for staff teams
type StaffTeamRequest struct {
	Name string `json:"name"`
}

// NurseRequest is the create/update payload for nurses
type NurseRequest struct {
	NurseID string    `json:"nurse_id"`
	Name    string    `json:"name"`
	TeamID  uuid.UUID `json:"team"`
}

// TeamAssignmentRequest is the create/update payload for team assignments
type TeamAssignmentRequest struct {
	WardID  uuid.UUID `json:"ward"`
	FloorID uuid.UUID `json:"floor"`
	TeamID  uuid.UUID `json:"team"`
}

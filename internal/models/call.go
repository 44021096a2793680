package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallStatus represents the lifecycle state of a call
type CallStatus string

const (
	CallStatusRaised   CallStatus = "raised"
	CallStatusAccepted CallStatus = "accepted"
	CallStatusResolved CallStatus = "resolved"
)

// Valid reports whether s is a known call status
func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusRaised, CallStatusAccepted, CallStatusResolved:
		return true
	}
	return false
}

// Call is a service request raised by a device on behalf of a bed.
// Deleting the device or bed deletes the call; deleting the nurse
// clears the reference and keeps the call.
type Call struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DeviceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"device"`
	BedID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"bed"`
	CallTime     time.Time  `gorm:"not null;index" json:"call_time"`
	Status       CallStatus `gorm:"type:varchar(50);not null" json:"status"`
	ResponseTime *time.Time `json:"response_time,omitempty"`
	NurseID      *uuid.UUID `gorm:"type:uuid;index" json:"nurse,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Call) TableName() string { return "calls" }

// BeforeCreate hook
func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CallCreateRequest raises a new call from a device
type CallCreateRequest struct {
	DeviceID uuid.UUID  `json:"device"`
	CallTime *time.Time `json:"call_time,omitempty"`
}

// CallCreated is the create response; the responsible team is resolved
// from the ward's team assignment and is advisory
type CallCreated struct {
	Call            *Call      `json:"call"`
	ResponsibleTeam *StaffTeam `json:"responsible_team,omitempty"`
}

// CallUpdateRequest mutates a call; nurse assignment and resolution go
// through the lifecycle rules
type CallUpdateRequest struct {
	Status       *CallStatus `json:"status,omitempty"`
	NurseID      *uuid.UUID  `json:"nurse,omitempty"`
	ResponseTime *time.Time  `json:"response_time,omitempty"`
}

// CallAssignRequest claims a call for a nurse
type CallAssignRequest struct {
	NurseID uuid.UUID `json:"nurse"`
}

// CallResolveRequest closes a call
type CallResolveRequest struct {
	ResponseTime *time.Time `json:"response_time,omitempty"`
}

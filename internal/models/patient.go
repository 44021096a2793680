package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient occupies at most one bed. Deleting the bed keeps the patient
// and clears the reference.
type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Age       int        `gorm:"not null" json:"age"`
	Gender    string     `gorm:"type:varchar(10)" json:"gender"`
	BedID     *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"bed,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Patient) TableName() string { return "patients" }

// BeforeCreate hook
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PatientRequest is the create/update payload for patients
type PatientRequest struct {
	Name   string     `json:"name"`
	Age    int        `json:"age"`
	Gender string     `json:"gender"`
	BedID  *uuid.UUID `json:"bed,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hospital is the root of the facility hierarchy
type Hospital struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Address   string     `gorm:"type:text" json:"address"`
	AdminID   *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"admin,omitempty"` // managing nurse, at most one hospital each, set-null on delete
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Hospital) TableName() string { return "hospitals" }

// BeforeCreate hook
func (h *Hospital) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Building belongs to a hospital and is cascade-deleted with it
type Building struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	HospitalID uuid.UUID  `gorm:"type:uuid;not null;index" json:"hospital"`
	ManagerID  *uuid.UUID `gorm:"type:uuid;index" json:"building_manager,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Building) TableName() string { return "buildings" }

// BeforeCreate hook
func (b *Building) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Floor belongs to a building
type Floor struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Number     int        `gorm:"not null" json:"number"`
	BuildingID uuid.UUID  `gorm:"type:uuid;not null;index" json:"building"`
	ManagerID  *uuid.UUID `gorm:"type:uuid;index" json:"floor_manager,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Floor) TableName() string { return "floors" }

// BeforeCreate hook
func (f *Floor) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Ward belongs to a floor
type Ward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	FloorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"floor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ward) TableName() string { return "wards" }

// BeforeCreate hook
func (w *Ward) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Bed belongs to a ward; nurses are a non-owning many-to-many association
type Bed struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Number    string    `gorm:"type:varchar(50);not null" json:"number"`
	WardID    uuid.UUID `gorm:"type:uuid;not null;index" json:"ward"`
	Nurses    []Nurse   `gorm:"many2many:bed_nurses" json:"nurses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Bed) TableName() string { return "beds" }

// BeforeCreate hook
func (b *Bed) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Device is a call button attached to a bed
type Device struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SerialNumber string    `gorm:"type:varchar(100);not null" json:"serial_number"`
	BedID        uuid.UUID `gorm:"type:uuid;not null;index" json:"bed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Device) TableName() string { return "devices" }

// BeforeCreate hook
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// HospitalRequest is the create/update payload for hospitals
type HospitalRequest struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	AdminID *uuid.UUID `json:"admin,omitempty"`
}

// BuildingRequest is the create/update payload for buildings
type BuildingRequest struct {
	Name       string     `json:"name"`
	HospitalID uuid.UUID  `json:"hospital"`
	ManagerID  *uuid.UUID `json:"building_manager,omitempty"`
}

// FloorRequest is the create/update payload for floors
type FloorRequest struct {
	Number     int        `json:"number"`
	BuildingID uuid.UUID  `json:"building"`
	ManagerID  *uuid.UUID `json:"floor_manager,omitempty"`
}

// WardRequest is the create/update payload for wards
type WardRequest struct {
	Name    string    `json:"name"`
	FloorID uuid.UUID `json:"floor"`
}

// BedRequest is the create/update payload for beds
type BedRequest struct {
	Number   string      `json:"number"`
	WardID   uuid.UUID   `json:"ward"`
	NurseIDs []uuid.UUID `json:"nurses,omitempty"`
}

// DeviceRequest is the create/update payload for devices
type DeviceRequest struct {
	SerialNumber string    `json:"serial_number"`
	BedID        uuid.UUID `json:"bed"`
}

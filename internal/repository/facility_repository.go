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

// FacilityRepository handles the facility hierarchy database operations.
// Deletes implement the ownership policy explicitly: descendants are
// removed in the same transaction, non-owning references are nulled.
type FacilityRepository struct{}

// NewFacilityRepository creates a new facility repository
func NewFacilityRepository() *FacilityRepository {
	return &FacilityRepository{}
}

// --- Hospitals ---

// CreateHospital creates a new hospital
func (r *FacilityRepository) CreateHospital(ctx context.Context, h *models.Hospital) error {
	if err := database.DB.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

// GetHospital retrieves a hospital by ID
func (r *FacilityRepository) GetHospital(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	var h models.Hospital
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, wrapNotFound(err, "hospital")
	}
	return &h, nil
}

// ListHospitals retrieves all hospitals
func (r *FacilityRepository) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	var hs []models.Hospital
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&hs).Error; err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hs, nil
}

// UpdateHospital persists changes to a hospital
func (r *FacilityRepository) UpdateHospital(ctx context.Context, h *models.Hospital) error {
	if err := database.DB.WithContext(ctx).Save(h).Error; err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	return nil
}

// DeleteHospital removes a hospital and every building, floor, ward,
// bed, device and call under it
func (r *FacilityRepository) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var buildingIDs []uuid.UUID
		if err := tx.Model(&models.Building{}).Where("hospital_id = ?", id).Pluck("id", &buildingIDs).Error; err != nil {
			return err
		}
		if err := deleteBuildingsTx(tx, buildingIDs); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Hospital{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("hospital")
		}
		return nil
	})
	if err != nil {
		return passthrough(err, "delete hospital")
	}
	return nil
}

// CountHospitalsByAdmin counts hospitals run by a nurse, excluding one
// hospital ID so an update does not collide with its own row
func (r *FacilityRepository) CountHospitalsByAdmin(ctx context.Context, nurseID uuid.UUID, exclude uuid.UUID) (int64, error) {
	var count int64
	q := database.DB.WithContext(ctx).Model(&models.Hospital{}).Where("admin_id = ?", nurseID)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count hospitals by admin: %w", err)
	}
	return count, nil
}

// --- Buildings ---

// CreateBuilding creates a new building
func (r *FacilityRepository) CreateBuilding(ctx context.Context, b *models.Building) error {
	if err := database.DB.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create building: %w", err)
	}
	return nil
}

// GetBuilding retrieves a building by ID
func (r *FacilityRepository) GetBuilding(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	var b models.Building
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, wrapNotFound(err, "building")
	}
	return &b, nil
}

// ListBuildings retrieves all buildings
func (r *FacilityRepository) ListBuildings(ctx context.Context) ([]models.Building, error) {
	var bs []models.Building
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&bs).Error; err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return bs, nil
}

// UpdateBuilding persists changes to a building
func (r *FacilityRepository) UpdateBuilding(ctx context.Context, b *models.Building) error {
	if err := database.DB.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("failed to update building: %w", err)
	}
	return nil
}

// DeleteBuilding removes a building and its descendants
func (r *FacilityRepository) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBuildingsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return passthrough(err, "delete building")
	}
	return nil
}

// --- Floors ---

// CreateFloor creates a new floor
func (r *FacilityRepository) CreateFloor(ctx context.Context, f *models.Floor) error {
	if err := database.DB.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("failed to create floor: %w", err)
	}
	return nil
}

// GetFloor retrieves a floor by ID
func (r *FacilityRepository) GetFloor(ctx context.Context, id uuid.UUID) (*models.Floor, error) {
	var f models.Floor
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, wrapNotFound(err, "floor")
	}
	return &f, nil
}

// ListFloors retrieves all floors
func (r *FacilityRepository) ListFloors(ctx context.Context) ([]models.Floor, error) {
	var fs []models.Floor
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&fs).Error; err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	return fs, nil
}

// UpdateFloor persists changes to a floor
func (r *FacilityRepository) UpdateFloor(ctx context.Context, f *models.Floor) error {
	if err := database.DB.WithContext(ctx).Save(f).Error; err != nil {
		return fmt.Errorf("failed to update floor: %w", err)
	}
	return nil
}

// DeleteFloor removes a floor and its descendants
func (r *FacilityRepository) DeleteFloor(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteFloorsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return passthrough(err, "delete floor")
	}
	return nil
}

// --- Wards ---

// CreateWard creates a new ward
func (r *FacilityRepository) CreateWard(ctx context.Context, w *models.Ward) error {
	if err := database.DB.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to create ward: %w", err)
	}
	return nil
}

// GetWard retrieves a ward by ID
func (r *FacilityRepository) GetWard(ctx context.Context, id uuid.UUID) (*models.Ward, error) {
	var w models.Ward
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, wrapNotFound(err, "ward")
	}
	return &w, nil
}

// ListWards retrieves all wards
func (r *FacilityRepository) ListWards(ctx context.Context) ([]models.Ward, error) {
	var ws []models.Ward
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&ws).Error; err != nil {
		return nil, fmt.Errorf("failed to list wards: %w", err)
	}
	return ws, nil
}

// UpdateWard persists changes to a ward
func (r *FacilityRepository) UpdateWard(ctx context.Context, w *models.Ward) error {
	if err := database.DB.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("failed to update ward: %w", err)
	}
	return nil
}

// DeleteWard removes a ward, its beds and their devices, calls and
// team assignments
func (r *FacilityRepository) DeleteWard(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteWardsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return passthrough(err, "delete ward")
	}
	return nil
}

// --- Beds ---

// CreateBed creates a new bed with its nurse associations
func (r *FacilityRepository) CreateBed(ctx context.Context, b *models.Bed) error {
	if err := database.DB.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create bed: %w", err)
	}
	return nil
}

// GetBed retrieves a bed by ID with its nurses preloaded
func (r *FacilityRepository) GetBed(ctx context.Context, id uuid.UUID) (*models.Bed, error) {
	var b models.Bed
	if err := database.DB.WithContext(ctx).Preload("Nurses").Where("id = ?", id).First(&b).Error; err != nil {
		return nil, wrapNotFound(err, "bed")
	}
	return &b, nil
}

// ListBeds retrieves all beds with nurses preloaded
func (r *FacilityRepository) ListBeds(ctx context.Context) ([]models.Bed, error) {
	var bs []models.Bed
	if err := database.DB.WithContext(ctx).Preload("Nurses").Order("created_at ASC").Find(&bs).Error; err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return bs, nil
}

// UpdateBed persists changes to a bed and replaces its nurse associations
func (r *FacilityRepository) UpdateBed(ctx context.Context, b *models.Bed) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Nurses").Save(b).Error; err != nil {
			return err
		}
		return tx.Model(b).Association("Nurses").Replace(b.Nurses)
	})
	if err != nil {
		return fmt.Errorf("failed to update bed: %w", err)
	}
	return nil
}

// DeleteBed removes a bed, its devices and calls; the occupying patient
// is kept with its bed reference cleared
func (r *FacilityRepository) DeleteBed(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBedsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return passthrough(err, "delete bed")
	}
	return nil
}

// --- Devices ---

// CreateDevice creates a new device
func (r *FacilityRepository) CreateDevice(ctx context.Context, d *models.Device) error {
	if err := database.DB.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// GetDevice retrieves a device by ID
func (r *FacilityRepository) GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	var d models.Device
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, wrapNotFound(err, "device")
	}
	return &d, nil
}

// ListDevices retrieves all devices
func (r *FacilityRepository) ListDevices(ctx context.Context) ([]models.Device, error) {
	var ds []models.Device
	if err := database.DB.WithContext(ctx).Order("created_at ASC").Find(&ds).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return ds, nil
}

// UpdateDevice persists changes to a device
func (r *FacilityRepository) UpdateDevice(ctx context.Context, d *models.Device) error {
	if err := database.DB.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	return nil
}

// DeleteDevice removes a device and the calls it raised
func (r *FacilityRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", id).Delete(&models.Call{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Device{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("device")
		}
		return nil
	})
	if err != nil {
		return passthrough(err, "delete device")
	}
	return nil
}

// --- cascade helpers (run inside a transaction) ---

func deleteBuildingsTx(tx *gorm.DB, buildingIDs []uuid.UUID) error {
	if len(buildingIDs) == 0 {
		return nil
	}
	var floorIDs []uuid.UUID
	if err := tx.Model(&models.Floor{}).Where("building_id IN ?", buildingIDs).Pluck("id", &floorIDs).Error; err != nil {
		return err
	}
	if err := deleteFloorsTx(tx, floorIDs); err != nil {
		return err
	}
	res := tx.Where("id IN ?", buildingIDs).Delete(&models.Building{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("building")
	}
	return nil
}

func deleteFloorsTx(tx *gorm.DB, floorIDs []uuid.UUID) error {
	if len(floorIDs) == 0 {
		return nil
	}
	var wardIDs []uuid.UUID
	if err := tx.Model(&models.Ward{}).Where("floor_id IN ?", floorIDs).Pluck("id", &wardIDs).Error; err != nil {
		return err
	}
	if err := deleteWardsTx(tx, wardIDs); err != nil {
		return err
	}
	if err := tx.Where("floor_id IN ?", floorIDs).Delete(&models.TeamAssignment{}).Error; err != nil {
		return err
	}
	res := tx.Where("id IN ?", floorIDs).Delete(&models.Floor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("floor")
	}
	return nil
}

func deleteWardsTx(tx *gorm.DB, wardIDs []uuid.UUID) error {
	if len(wardIDs) == 0 {
		return nil
	}
	var bedIDs []uuid.UUID
	if err := tx.Model(&models.Bed{}).Where("ward_id IN ?", wardIDs).Pluck("id", &bedIDs).Error; err != nil {
		return err
	}
	if err := deleteBedsTx(tx, bedIDs); err != nil {
		return err
	}
	if err := tx.Where("ward_id IN ?", wardIDs).Delete(&models.TeamAssignment{}).Error; err != nil {
		return err
	}
	res := tx.Where("id IN ?", wardIDs).Delete(&models.Ward{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ward")
	}
	return nil
}

func deleteBedsTx(tx *gorm.DB, bedIDs []uuid.UUID) error {
	if len(bedIDs) == 0 {
		return nil
	}
	var deviceIDs []uuid.UUID
	if err := tx.Model(&models.Device{}).Where("bed_id IN ?", bedIDs).Pluck("id", &deviceIDs).Error; err != nil {
		return err
	}
	// Calls cascade with the bed and its devices
	if err := tx.Where("bed_id IN ?", bedIDs).Delete(&models.Call{}).Error; err != nil {
		return err
	}
	if len(deviceIDs) > 0 {
		if err := tx.Where("device_id IN ?", deviceIDs).Delete(&models.Call{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", deviceIDs).Delete(&models.Device{}).Error; err != nil {
			return err
		}
	}
	// The patient record survives with the reference cleared
	if err := tx.Model(&models.Patient{}).Where("bed_id IN ?", bedIDs).Update("bed_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM bed_nurses WHERE bed_id IN ?", bedIDs).Error; err != nil {
		return err
	}
	res := tx.Where("id IN ?", bedIDs).Delete(&models.Bed{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("bed")
	}
	return nil
}

package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteDeviceCascadesCalls(t *testing.T) {
	mock := newMockDB(t)
	repo := NewFacilityRepository()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "calls" WHERE device_id =`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "devices" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteDevice(context.Background(), id)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDeviceNotFound(t *testing.T) {
	mock := newMockDB(t)
	repo := NewFacilityRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "calls" WHERE device_id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "devices" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteDevice(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
}

func TestDeleteHospitalCascadesHierarchy(t *testing.T) {
	mock := newMockDB(t)
	repo := NewFacilityRepository()
	hospitalID := uuid.New()
	buildingID := uuid.New()
	floorID := uuid.New()
	wardID := uuid.New()
	bedID := uuid.New()
	deviceID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "buildings" WHERE hospital_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(buildingID.String()))
	mock.ExpectQuery(`SELECT "id" FROM "floors" WHERE building_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(floorID.String()))
	mock.ExpectQuery(`SELECT "id" FROM "wards" WHERE floor_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(wardID.String()))
	mock.ExpectQuery(`SELECT "id" FROM "beds" WHERE ward_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(bedID.String()))
	mock.ExpectQuery(`SELECT "id" FROM "devices" WHERE bed_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(deviceID.String()))
	mock.ExpectExec(`DELETE FROM "calls" WHERE bed_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "calls" WHERE device_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "devices" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "patients" SET "bed_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bed_nurses WHERE bed_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "beds" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "team_assignments" WHERE ward_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "wards" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "team_assignments" WHERE floor_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "floors" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "buildings" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "hospitals" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteHospital(context.Background(), hospitalID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHospitalNotFound(t *testing.T) {
	mock := newMockDB(t)
	repo := NewFacilityRepository()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "buildings" WHERE hospital_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "hospitals" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteHospital(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
}

func TestDeleteBedDetachesPatientAndNurses(t *testing.T) {
	mock := newMockDB(t)
	repo := NewFacilityRepository()
	bedID := uuid.New()
	deviceID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "devices" WHERE bed_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(deviceID.String()))
	mock.ExpectExec(`DELETE FROM "calls" WHERE bed_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "calls" WHERE device_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "devices" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "patients" SET "bed_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bed_nurses WHERE bed_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "beds" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteBed(context.Background(), bedID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

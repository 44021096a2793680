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

func TestDeleteNurseClearsReferences(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "calls" SET "nurse_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "hospitals" SET "admin_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "buildings" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "floors" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bed_nurses WHERE nurse_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "nurses" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteNurse(context.Background(), id)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNurseNotFound(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "calls" SET "nurse_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "hospitals" SET "admin_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "buildings" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "floors" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM bed_nurses WHERE nurse_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "nurses" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteNurse(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTeamCascadesNursesAndAssignments(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()
	teamID := uuid.New()
	nurseID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "nurses" WHERE team_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(nurseID.String()))
	mock.ExpectExec(`UPDATE "calls" SET "nurse_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "hospitals" SET "admin_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "buildings" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "floors" SET "manager_id"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM bed_nurses WHERE nurse_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "nurses" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "team_assignments" WHERE team_id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "staff_teams" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteTeam(context.Background(), teamID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTeamWithoutNurses(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()

	// An empty nurse list skips the set-null statements entirely
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "nurses" WHERE team_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "team_assignments" WHERE team_id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "staff_teams" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteTeam(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssignmentNotFound(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "team_assignments" WHERE id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.DeleteAssignment(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
}

func TestGetAssignmentByWardPicksLatest(t *testing.T) {
	mock := newMockDB(t)
	repo := NewStaffingRepository()
	wardID, teamID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "team_assignments" WHERE ward_id = .* ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ward_id", "floor_id", "team_id"}).
			AddRow(uuid.New().String(), wardID.String(), uuid.New().String(), teamID.String()))

	a, err := repo.GetAssignmentByWard(context.Background(), wardID)
	require.NoError(t, err)
	assert.Equal(t, teamID, a.TeamID)
}

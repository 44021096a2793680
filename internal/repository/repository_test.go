package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB swaps the package-level connection for a sqlmock-backed one
// so delete policies can be asserted at the SQL level
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	prev := database.DB
	database.DB = gormDB
	t.Cleanup(func() {
		database.DB = prev
		db.Close()
	})
	return mock
}

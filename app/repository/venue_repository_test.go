package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/leaguehq/LeagueHQ/app/models"
)

func newMockVenueRepository(t *testing.T) (VenueRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewVenueRepository(gdb), mock
}

func TestCreatePitchRefreshesCounterInOneTransaction(t *testing.T) {
	repo, mock := newMockVenueRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pitches`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `venues` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreatePitch(&models.Pitch{
		TenantID:  5,
		VenueID:   3,
		PitchName: "Main Pitch",
		PitchSize: "11-a-side",
		Status:    models.PitchStatusAvailable,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePitchRollsBackWhenCounterUpdateFails(t *testing.T) {
	repo, mock := newMockVenueRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pitches`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `venues` SET").
		WillReturnError(errors.New("update failed"))
	mock.ExpectRollback()

	err := repo.CreatePitch(&models.Pitch{TenantID: 5, VenueID: 3, PitchName: "Main Pitch"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePitchRefreshesCounterInOneTransaction(t *testing.T) {
	repo, mock := newMockVenueRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pitches` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `venues` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeletePitch(5, 3, 9)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

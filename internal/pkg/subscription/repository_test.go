package subscription

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewRepository(gdb), mock
}

func TestFindAvailablePackageFiltersExpiredRows(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "package_id", "subscription_plan", "subscription_tier", "expires_at", "is_recycled", "source_venue_name",
	}).AddRow(1, 5, "pkg-1", "Growth", "growth", now.Add(24*time.Hour), true, "Old Ground")

	mock.ExpectQuery("SELECT \\* FROM `available_packages` WHERE tenant_id = \\? AND package_id = \\? AND expires_at > \\?").
		WithArgs(5, "pkg-1", now).
		WillReturnRows(rows)

	entry, err := repo.FindAvailablePackage(5, "pkg-1", now)
	require.NoError(t, err)
	assert.Equal(t, "growth", entry.SubscriptionTier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailablePackageNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `available_packages`").
		WithArgs(5, "pkg-missing", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindAvailablePackage(5, "pkg-missing", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAvailablePackageReportsRowsAffected(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `available_packages` WHERE tenant_id = \\? AND package_id = \\? AND expires_at > \\?").
		WithArgs(5, "pkg-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claimed, err := repo.ClaimAvailablePackage(5, "pkg-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAvailablePackageLostRace(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `available_packages`").
		WithArgs(5, "pkg-1", now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	claimed, err := repo.ClaimAvailablePackage(5, "pkg-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailablePackagesOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "package_id", "expires_at"}).
		AddRow(2, 5, "pkg-new", now.Add(48*time.Hour)).
		AddRow(1, 5, "pkg-old", now.Add(24*time.Hour))

	mock.ExpectQuery("SELECT \\* FROM `available_packages` WHERE tenant_id = \\? AND expires_at > \\? ORDER BY expires_at DESC, created_at DESC").
		WithArgs(5, now).
		WillReturnRows(rows)

	entries, err := repo.ListAvailablePackages(5, now)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pkg-new", entries[0].PackageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

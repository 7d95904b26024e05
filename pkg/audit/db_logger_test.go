package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDBLoggerTest(t *testing.T) (*DBLogger, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, err := NewDBLogger(db)
	require.NoError(t, err)
	return logger, db
}

func TestDBLoggerLogAndSearch(t *testing.T) {
	logger, _ := setupDBLoggerTest(t)
	ctx := context.Background()

	granted := New(EventPermissionGranted, 5, 10).WithPermission("Orders.Approve")
	prohibited := New(EventPermissionProhibited, 5, 10).WithPermission("Orders.Delete")
	otherTenant := New(EventPermissionGranted, 6, 20).WithPermission("Orders.Approve")

	require.NoError(t, logger.Log(ctx, granted))
	require.NoError(t, logger.Log(ctx, prohibited))
	require.NoError(t, logger.Log(ctx, otherTenant))

	tenantID := int64(5)
	events, err := logger.Search(ctx, SearchFilter{TenantID: &tenantID})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	byPermission, err := logger.Search(ctx, SearchFilter{Permission: "Orders.Approve"})
	require.NoError(t, err)
	assert.Len(t, byPermission, 2)

	userID := int64(10)
	limited, err := logger.Search(ctx, SearchFilter{UserID: &userID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestDBLoggerSearchTimeWindow(t *testing.T) {
	logger, _ := setupDBLoggerTest(t)
	ctx := context.Background()

	old := New(EventPermissionGranted, 1, 1)
	old.Timestamp = time.Now().UTC().Add(-48 * time.Hour)
	recent := New(EventPermissionGranted, 1, 1)

	require.NoError(t, logger.Log(ctx, old))
	require.NoError(t, logger.Log(ctx, recent))

	since := time.Now().UTC().Add(-time.Hour)
	events, err := logger.Search(ctx, SearchFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, recent.ID, events[0].ID)
}

func TestDBLoggerStats(t *testing.T) {
	logger, _ := setupDBLoggerTest(t)
	ctx := context.Background()

	require.NoError(t, logger.Log(ctx, New(EventPermissionGranted, 5, 10)))
	require.NoError(t, logger.Log(ctx, New(EventPermissionGranted, 5, 11)))
	require.NoError(t, logger.Log(ctx, New(EventRoleAssigned, 6, 12).WithStatus(StatusFailure)))

	stats, err := logger.GetStats(ctx, time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEvents)
	assert.Equal(t, int64(2), stats.ByType[EventPermissionGranted])
	assert.Equal(t, int64(1), stats.ByType[EventRoleAssigned])
	assert.Equal(t, int64(1), stats.ByStatus[StatusFailure])
	assert.Equal(t, int64(3), stats.UniqueUsers)
	assert.Equal(t, int64(2), stats.UniqueTenants)
}

func TestDBLoggerPurge(t *testing.T) {
	logger, _ := setupDBLoggerTest(t)
	ctx := context.Background()

	old := New(EventPermissionGranted, 1, 1)
	old.Timestamp = time.Now().UTC().Add(-100 * 24 * time.Hour)
	recent := New(EventPermissionGranted, 1, 1)

	require.NoError(t, logger.Log(ctx, old))
	require.NoError(t, logger.Log(ctx, recent))

	removed, err := logger.Purge(ctx, time.Now().UTC().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	events, err := logger.Search(ctx, SearchFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, recent.ID, events[0].ID)
}

func TestDBLoggerInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_events").WillReturnResult(sqlmock.NewResult(0, 0))
	logger, err := NewDBLogger(db)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO audit_events").WillReturnError(sql.ErrConnDone)

	err = logger.Log(context.Background(), New(EventPermissionGranted, 1, 1))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDBLoggerRequiresDB(t *testing.T) {
	_, err := NewDBLogger(nil)
	assert.Error(t, err)
}

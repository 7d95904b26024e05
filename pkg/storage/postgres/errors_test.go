package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/gatehouse/pkg/identity"
)

func TestFindUserByIDQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT .+ FROM users").WillReturnError(boom)

	store := NewWithDB(db, nil)
	_, err = store.FindUserByID(context.Background(), testTenant, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, identity.ErrUserNotFound, "infrastructure failures are not NotFound")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_tenant_id_user_name_key"})

	store := NewWithDB(db, nil)
	err = store.CreateUser(context.Background(), &identity.User{TenantID: testTenant, UserName: "alice"})
	assert.True(t, identity.IsDuplicate(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	store := NewWithDB(db, nil)
	assert.NoError(t, store.HealthCheck(context.Background()))

	boom := errors.New("down")
	mock.ExpectPing().WillReturnError(boom)
	assert.ErrorIs(t, store.HealthCheck(context.Background()), boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupPostgresStore starts a PostgreSQL container, runs the migrations and
// returns a ready Store plus a cleanup function.
//
// Usage:
//
//	store, cleanup := SetupPostgresStore(t)
//	defer cleanup()
func SetupPostgresStore(t *testing.T) (*Store, func()) {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping integration tests")
	}
	defer provider.Close()

	container, err := pgcontainer.Run(ctx, "postgres:16-alpine",
		pgcontainer.WithDatabase("gatehouse_test"),
		pgcontainer.WithUsername("gatehouse"),
		pgcontainer.WithPassword("gatehouse_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := New(ctx, Config{URL: url, MaxConns: 5, Timeout: 30 * time.Second}, nil)
	if err != nil {
		container.Terminate(context.Background())
		t.Fatalf("failed to connect to test postgres: %v", err)
	}

	cleanup := func() {
		store.Close()
		termCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(termCtx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}
	return store, cleanup
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one schema migration step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns the authorization schema migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					tenant_id BIGINT NOT NULL,
					user_name VARCHAR(256) NOT NULL,
					email VARCHAR(256) NOT NULL DEFAULT '',
					name VARCHAR(256) NOT NULL DEFAULT '',
					surname VARCHAR(256) NOT NULL DEFAULT '',
					is_protected BOOLEAN NOT NULL DEFAULT FALSE,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
					UNIQUE(tenant_id, user_name)
				);

				CREATE UNIQUE INDEX idx_users_tenant_email ON users(tenant_id, email) WHERE email <> '';
				CREATE INDEX idx_users_tenant_id ON users(tenant_id);
			`,
		},
		{
			Version:     2,
			Description: "Create roles and user_roles tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS roles (
					id BIGSERIAL PRIMARY KEY,
					tenant_id BIGINT NOT NULL,
					name VARCHAR(256) NOT NULL,
					display_name VARCHAR(256) NOT NULL DEFAULT '',
					is_static BOOLEAN NOT NULL DEFAULT FALSE,
					is_default BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
					UNIQUE(tenant_id, name)
				);

				CREATE TABLE IF NOT EXISTS user_roles (
					tenant_id BIGINT NOT NULL,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
					PRIMARY KEY(user_id, role_id)
				);

				CREATE INDEX idx_user_roles_tenant_user ON user_roles(tenant_id, user_id);
			`,
		},
		{
			Version:     3,
			Description: "Create permission grant tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS user_permission_grants (
					tenant_id BIGINT NOT NULL,
					user_id BIGINT NOT NULL,
					name VARCHAR(256) NOT NULL,
					is_granted BOOLEAN NOT NULL,
					UNIQUE(tenant_id, user_id, name, is_granted)
				);

				CREATE INDEX idx_user_permission_grants_user ON user_permission_grants(tenant_id, user_id);

				CREATE TABLE IF NOT EXISTS role_permission_grants (
					tenant_id BIGINT NOT NULL,
					role_id BIGINT NOT NULL,
					name VARCHAR(256) NOT NULL,
					UNIQUE(tenant_id, role_id, name)
				);

				CREATE INDEX idx_role_permission_grants_role ON role_permission_grants(tenant_id, role_id);
			`,
		},
		{
			Version:     4,
			Description: "Create organization unit tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS organization_units (
					id BIGSERIAL PRIMARY KEY,
					tenant_id BIGINT NOT NULL,
					parent_id BIGINT REFERENCES organization_units(id) ON DELETE CASCADE,
					code VARCHAR(256) NOT NULL,
					display_name VARCHAR(256) NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
					UNIQUE(tenant_id, code)
				);

				CREATE INDEX idx_organization_units_code ON organization_units(tenant_id, code);

				CREATE TABLE IF NOT EXISTS user_organization_units (
					tenant_id BIGINT NOT NULL,
					user_id BIGINT NOT NULL,
					unit_id BIGINT NOT NULL REFERENCES organization_units(id) ON DELETE CASCADE,
					PRIMARY KEY(user_id, unit_id)
				);

				CREATE INDEX idx_user_organization_units_user ON user_organization_units(tenant_id, user_id);
				CREATE INDEX idx_user_organization_units_unit ON user_organization_units(tenant_id, unit_id);
			`,
		},
		{
			Version:     5,
			Description: "Create tenant_features table",
			SQL: `
				CREATE TABLE IF NOT EXISTS tenant_features (
					tenant_id BIGINT NOT NULL,
					name VARCHAR(256) NOT NULL,
					value TEXT NOT NULL,
					PRIMARY KEY(tenant_id, name)
				);
			`,
		},
	}
}

// Migrate applies every pending migration, tracking progress in a
// schema_migrations table.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range GetMigrations() {
		if current.Valid && int64(migration.Version) <= current.Int64 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Description, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, description, applied_at) VALUES ($1, $2, NOW())`,
			migration.Version, migration.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}
	return nil
}

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DBLogger persists audit events to a SQL database and answers search,
// stats and export queries over them.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger and ensures the
// audit_events table exists.
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	l := &DBLogger{db: db}
	if err := l.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit_events table: %w", err)
	}
	return l, nil
}

func (l *DBLogger) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id VARCHAR(36) PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		event_type VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL,
		tenant_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		permission VARCHAR(255),
		role VARCHAR(255),
		unit_id BIGINT,
		message TEXT,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_events_event_type ON audit_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_audit_events_tenant_user ON audit_events(tenant_id, user_id);
	`
	_, err := l.db.Exec(query)
	return err
}

func (l *DBLogger) Log(ctx context.Context, event *Event) error {
	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (
			id, timestamp, event_type, status,
			tenant_id, user_id, permission, role, unit_id,
			message, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := l.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, string(event.Type), string(event.Status),
		event.TenantID, event.UserID, event.Permission, event.Role, event.UnitID,
		event.Message, string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

func (l *DBLogger) Close() error {
	// The caller owns the *sql.DB.
	return nil
}

// Search returns events matching the filter, newest first.
func (l *DBLogger) Search(ctx context.Context, filter SearchFilter) ([]*Event, error) {
	query := `
		SELECT id, timestamp, event_type, status,
		       tenant_id, user_id, permission, role, unit_id,
		       message, metadata
		FROM audit_events
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1

	if filter.TenantID != nil {
		query += fmt.Sprintf(" AND tenant_id = $%d", argCount)
		args = append(args, *filter.TenantID)
		argCount++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filter.UserID)
		argCount++
	}
	if len(filter.Types) > 0 {
		query += fmt.Sprintf(" AND event_type = ANY($%d)", argCount)
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		argCount++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(*filter.Status))
		argCount++
	}
	if filter.Permission != "" {
		query += fmt.Sprintf(" AND permission = $%d", argCount)
		args = append(args, filter.Permission)
		argCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argCount)
		args = append(args, *filter.Since)
		argCount++
	}
	if filter.Until != nil {
		query += fmt.Sprintf(" AND timestamp < $%d", argCount)
		args = append(args, *filter.Until)
		argCount++
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search audit events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetStats aggregates event counts in [since, until).
func (l *DBLogger) GetStats(ctx context.Context, since, until time.Time) (*Stats, error) {
	stats := &Stats{
		ByType:   make(map[EventType]int64),
		ByStatus: make(map[EventStatus]int64),
	}

	query := `
		SELECT event_type, status, COUNT(*)
		FROM audit_events
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY event_type, status
	`
	rows, err := l.db.QueryContext(ctx, query, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate audit events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventType, status string
		var count int64
		if err := rows.Scan(&eventType, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.TotalEvents += count
		stats.ByType[EventType(eventType)] += count
		stats.ByStatus[EventStatus(status)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := `
		SELECT COUNT(DISTINCT user_id), COUNT(DISTINCT tenant_id)
		FROM audit_events
		WHERE timestamp >= $1 AND timestamp < $2
	`
	if err := l.db.QueryRowContext(ctx, counts, since, until).Scan(&stats.UniqueUsers, &stats.UniqueTenants); err != nil {
		return nil, fmt.Errorf("failed to count distinct actors: %w", err)
	}

	return stats, nil
}

// Purge deletes events older than cutoff and returns the number removed.
func (l *DBLogger) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := l.db.ExecContext(ctx, `DELETE FROM audit_events WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit events: %w", err)
	}
	return result.RowsAffected()
}

func scanEvent(rows *sql.Rows) (*Event, error) {
	var event Event
	var eventType, status, metadataJSON string
	var permission, role, message sql.NullString
	var unitID sql.NullInt64

	if err := rows.Scan(
		&event.ID, &event.Timestamp, &eventType, &status,
		&event.TenantID, &event.UserID, &permission, &role, &unitID,
		&message, &metadataJSON,
	); err != nil {
		return nil, fmt.Errorf("failed to scan audit event: %w", err)
	}

	event.Type = EventType(eventType)
	event.Status = EventStatus(status)
	event.Permission = permission.String
	event.Role = role.String
	event.UnitID = unitID.Int64
	event.Message = message.String

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &event.Metadata); err != nil {
			event.Metadata = nil
		}
	}

	return &event, nil
}

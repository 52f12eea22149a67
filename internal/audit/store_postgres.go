package audit

import (
	"context"
	"database/sql"
	"fmt"

	"talentgate/pkg/domain"
	"talentgate/pkg/platform/tx"
)

// PostgresStore persists audit events in an append-only table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
    id           BIGSERIAL PRIMARY KEY,
    occurred_at  TIMESTAMPTZ NOT NULL,
    action       TEXT NOT NULL,
    application_id UUID,
    job_id       UUID,
    actor_id     UUID,
    from_status  TEXT NOT NULL DEFAULT '',
    to_status    TEXT NOT NULL DEFAULT '',
    reason       TEXT NOT NULL DEFAULT '',
    request_id   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_events_application ON audit_events (application_id, occurred_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO audit_events (occurred_at, action, application_id, job_id, actor_id, from_status, to_status, reason, request_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.Timestamp,
		string(event.Action),
		nullableID(event.ApplicationID.IsNil(), event.ApplicationID.String()),
		nullableID(event.JobID.IsNil(), event.JobID.String()),
		nullableID(event.ActorID.IsNil(), event.ActorID.String()),
		event.FromStatus,
		event.ToStatus,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByApplication(ctx context.Context, id domain.ApplicationID) ([]Event, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
SELECT occurred_at, action, application_id, job_id, actor_id, from_status, to_status, reason, request_id
FROM audit_events
WHERE application_id = $1
ORDER BY occurred_at, id`, id.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			action  string
			appID   sql.NullString
			jobID   sql.NullString
			actorID sql.NullString
		)
		if err := rows.Scan(&e.Timestamp, &action, &appID, &jobID, &actorID,
			&e.FromStatus, &e.ToStatus, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		if appID.Valid {
			if e.ApplicationID, err = domain.ParseApplicationID(appID.String); err != nil {
				return nil, err
			}
		}
		if jobID.Valid {
			if e.JobID, err = domain.ParseJobID(jobID.String); err != nil {
				return nil, err
			}
		}
		if actorID.Valid {
			if e.ActorID, err = domain.ParseUserID(actorID.String); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullableID(isNil bool, s string) any {
	if isNil {
		return nil
	}
	return s
}

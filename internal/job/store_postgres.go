package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/platform/tx"
)

// PostgresStore persists job postings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure jobs schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	org_id UUID NOT NULL,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	deadline TIMESTAMPTZ,
	applicants INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_org ON jobs(org_id);
`)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, j Job) error {
	q := tx.Resolve(ctx, s.db)
	deadline := sql.NullTime{Time: j.Deadline, Valid: !j.Deadline.IsZero()}
	_, err := q.ExecContext(ctx, `
INSERT INTO jobs (id, org_id, title, status, deadline, applicants, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, uuid.UUID(j.ID), uuid.UUID(j.OrgID), j.Title, string(j.Status), deadline, j.Applicants, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.JobID) (Job, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT id, org_id, title, status, deadline, applicants, created_at FROM jobs WHERE id = $1
`, uuid.UUID(id))

	var (
		j        Job
		jid      uuid.UUID
		orgID    uuid.UUID
		status   string
		deadline sql.NullTime
	)
	if err := row.Scan(&jid, &orgID, &j.Title, &status, &deadline, &j.Applicants, &j.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, sentinel.ErrNotFound
		}
		return Job{}, fmt.Errorf("scan job: %w", err)
	}
	j.ID = domain.JobID(jid)
	j.OrgID = domain.OrgID(orgID)
	j.Status = Status(status)
	if deadline.Valid {
		j.Deadline = deadline.Time
	}
	return j, nil
}

func (s *PostgresStore) IncrementApplicants(ctx context.Context, id domain.JobID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `UPDATE jobs SET applicants = applicants + 1 WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("increment applicants: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

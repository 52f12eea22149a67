package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"talentgate/internal/application/models"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists applications in PostgreSQL. It resolves queries
// against the context transaction when one is present, so lifecycle writes
// share the engine's transaction boundary.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure applications schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS applications (
	id UUID PRIMARY KEY,
	job_id UUID NOT NULL,
	candidate_id UUID NOT NULL,
	status TEXT NOT NULL,
	applicant_name TEXT NOT NULL DEFAULT '',
	applicant_email TEXT NOT NULL DEFAULT '',
	applicant_phone TEXT NOT NULL DEFAULT '',
	applicant_linkedin TEXT NOT NULL DEFAULT '',
	cover_letter TEXT NOT NULL DEFAULT '',
	resume_url TEXT NOT NULL DEFAULT '',
	expected_salary TEXT NOT NULL DEFAULT '',
	notice_period TEXT NOT NULL DEFAULT '',
	reviewed_at TIMESTAMPTZ,
	interviewed_at TIMESTAMPTZ,
	rejected_at TIMESTAMPTZ,
	accepted_at TIMESTAMPTZ,
	analysis_result JSONB,
	analysis_score DOUBLE PRECISION,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_job_candidate
	ON applications(job_id, candidate_id);
CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id);
CREATE INDEX IF NOT EXISTS idx_applications_candidate ON applications(candidate_id);

CREATE TABLE IF NOT EXISTS application_notes (
	id UUID PRIMARY KEY,
	application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	author_id UUID NOT NULL,
	text TEXT NOT NULL,
	visibility TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_application_notes_app ON application_notes(application_id);
`)
	return err
}

const applicationColumns = `id, job_id, candidate_id, status,
	applicant_name, applicant_email, applicant_phone, applicant_linkedin,
	cover_letter, resume_url, expected_salary, notice_period,
	reviewed_at, interviewed_at, rejected_at, accepted_at,
	analysis_result, analysis_score, notes, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, app models.Application) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO applications (`+applicationColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
`,
		uuid.UUID(app.ID), uuid.UUID(app.JobID), uuid.UUID(app.CandidateID), string(app.Status),
		app.ApplicantName, app.ApplicantEmail, app.ApplicantPhone, app.ApplicantLinkedIn,
		app.CoverLetter, app.ResumeURL, app.ExpectedSalary, app.NoticePeriod,
		app.ReviewedAt, app.InterviewedAt, app.RejectedAt, app.AcceptedAt,
		nullJSON(app.AnalysisResult), app.AnalysisScore, app.Notes, app.CreatedAt, app.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ApplicationID) (models.Application, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, uuid.UUID(id))
	return scanApplication(row)
}

func (s *PostgresStore) FindByJobAndCandidate(ctx context.Context, jobID domain.JobID, candidateID domain.UserID) (models.Application, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND candidate_id = $2
`, uuid.UUID(jobID), uuid.UUID(candidateID))
	return scanApplication(row)
}

func (s *PostgresStore) ListByJob(ctx context.Context, jobID domain.JobID, limit, offset int) ([]models.Application, error) {
	return s.list(ctx, `job_id`, uuid.UUID(jobID), limit, offset)
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID domain.UserID, limit, offset int) ([]models.Application, error) {
	return s.list(ctx, `candidate_id`, uuid.UUID(candidateID), limit, offset)
}

func (s *PostgresStore) list(ctx context.Context, column string, key uuid.UUID, limit, offset int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
SELECT `+applicationColumns+` FROM applications
WHERE `+column+` = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var res []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, app)
	}
	return res, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.ApplicationID, expected, next models.Status, at time.Time) error {
	q := tx.Resolve(ctx, s.db)

	query := `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	if column, ok := stageColumn[next]; ok {
		query = `UPDATE applications SET status = $1, updated_at = $2, ` + column + ` = $2 WHERE id = $3 AND status = $4`
	}
	res, err := q.ExecContext(ctx, query, string(next), at, uuid.UUID(id), string(expected))
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is gone or it moved under us.
		row := q.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE id = $1`, uuid.UUID(id))
		var one int
		if scanErr := row.Scan(&one); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return scanErr
		}
		return sentinel.ErrStale
	}
	return nil
}

func (s *PostgresStore) SetAnalysis(ctx context.Context, id domain.ApplicationID, result json.RawMessage, score *float64, next models.Status, at time.Time) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
UPDATE applications SET analysis_result = $1, analysis_score = $2, status = $3, updated_at = $4
WHERE id = $5
`, nullJSON(result), score, string(next), at, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("set application analysis: %w", err)
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

func (s *PostgresStore) AppendOperationalNote(ctx context.Context, id domain.ApplicationID, line string, at time.Time) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
UPDATE applications
SET notes = CASE WHEN notes = '' THEN $1 ELSE notes || E'\n' || $1 END, updated_at = $2
WHERE id = $3
`, line, at, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("append operational note: %w", err)
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

func (s *PostgresStore) Delete(ctx context.Context, id domain.ApplicationID) (bool, error) {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (models.Application, error) {
	var (
		app      models.Application
		id       uuid.UUID
		jobID    uuid.UUID
		candID   uuid.UUID
		status   string
		analysis []byte
	)
	err := row.Scan(
		&id, &jobID, &candID, &status,
		&app.ApplicantName, &app.ApplicantEmail, &app.ApplicantPhone, &app.ApplicantLinkedIn,
		&app.CoverLetter, &app.ResumeURL, &app.ExpectedSalary, &app.NoticePeriod,
		&app.ReviewedAt, &app.InterviewedAt, &app.RejectedAt, &app.AcceptedAt,
		&analysis, &app.AnalysisScore, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, sentinel.ErrNotFound
		}
		return models.Application{}, fmt.Errorf("scan application: %w", err)
	}
	app.ID = domain.ApplicationID(id)
	app.JobID = domain.JobID(jobID)
	app.CandidateID = domain.UserID(candID)
	app.Status = models.Status(status)
	app.AnalysisResult = analysis
	return app, nil
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresNoteStore persists staff annotations in PostgreSQL.
type PostgresNoteStore struct {
	db *sql.DB
}

func NewPostgresNotes(db *sql.DB) *PostgresNoteStore {
	return &PostgresNoteStore{db: db}
}

func (s *PostgresNoteStore) Create(ctx context.Context, note models.Note) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO application_notes (id, application_id, author_id, text, visibility, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, uuid.UUID(note.ID), uuid.UUID(note.ApplicationID), uuid.UUID(note.AuthorID),
		note.Text, string(note.Visibility), note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *PostgresNoteStore) FindByID(ctx context.Context, id domain.NoteID) (models.Note, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT id, application_id, author_id, text, visibility, created_at, updated_at
FROM application_notes WHERE id = $1
`, uuid.UUID(id))
	return scanNote(row)
}

func (s *PostgresNoteStore) ListByApplication(ctx context.Context, appID domain.ApplicationID) ([]models.Note, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
SELECT id, application_id, author_id, text, visibility, created_at, updated_at
FROM application_notes WHERE application_id = $1 ORDER BY created_at
`, uuid.UUID(appID))
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var res []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, note)
	}
	return res, rows.Err()
}

func (s *PostgresNoteStore) Update(ctx context.Context, id domain.NoteID, text string, visibility models.NoteVisibility, at time.Time) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
UPDATE application_notes SET text = $1, visibility = $2, updated_at = $3 WHERE id = $4
`, text, string(visibility), at, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("update note: %w", err)
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

func (s *PostgresNoteStore) Delete(ctx context.Context, id domain.NoteID) (bool, error) {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM application_notes WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanNote(row rowScanner) (models.Note, error) {
	var (
		note     models.Note
		id       uuid.UUID
		appID    uuid.UUID
		authorID uuid.UUID
		vis      string
	)
	err := row.Scan(&id, &appID, &authorID, &note.Text, &vis, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, sentinel.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("scan note: %w", err)
	}
	note.ID = domain.NoteID(id)
	note.ApplicationID = domain.ApplicationID(appID)
	note.AuthorID = domain.UserID(authorID)
	note.Visibility = models.NoteVisibility(vis)
	return note, nil
}

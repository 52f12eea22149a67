package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/platform/tx"
	"talentgate/pkg/requestcontext"
)

const uniqueViolation = "23505"

// PostgresUserStore persists identities in PostgreSQL. Email uniqueness is
// enforced by the database so the in-transaction guard and the constraint
// agree under concurrency.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) (*PostgresUserStore, error) {
	s := &PostgresUserStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure users schema: %w", err)
	}
	return s, nil
}

func (s *PostgresUserStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id),
	resume_url TEXT NOT NULL DEFAULT '',
	skills TEXT[] NOT NULL DEFAULT '{}',
	linkedin TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS profile_experience (
	profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	company TEXT NOT NULL,
	title TEXT NOT NULL,
	start_year INTEGER NOT NULL DEFAULT 0,
	end_year INTEGER NOT NULL DEFAULT 0,
	summary TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_profile_experience ON profile_experience(profile_id);

CREATE TABLE IF NOT EXISTS profile_education (
	profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	institution TEXT NOT NULL,
	degree TEXT NOT NULL DEFAULT '',
	field TEXT NOT NULL DEFAULT '',
	end_year INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_profile_education ON profile_education(profile_id);
`)
	return err
}

func (s *PostgresUserStore) Create(ctx context.Context, user User) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO users (id, email, name, phone, password_hash, active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, uuid.UUID(user.ID), user.Email, user.Name, user.Phone, user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id domain.UserID) (User, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT id, email, name, phone, password_hash, active, created_at, updated_at FROM users WHERE id = $1
`, uuid.UUID(id))
	return scanUser(row)
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT id, email, name, phone, password_hash, active, created_at, updated_at FROM users WHERE email = $1
`, contact.NormalizeEmail(email))
	return scanUser(row)
}

func (s *PostgresUserStore) UpdateContact(ctx context.Context, id domain.UserID, email, name, phone string) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
UPDATE users SET email = $1, name = $2, phone = $3, updated_at = $4 WHERE id = $5
`, contact.NormalizeEmail(email), name, phone, requestcontext.Now(ctx), uuid.UUID(id))
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update user contact: %w", err)
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

func scanUser(row *sql.Row) (User, error) {
	var (
		user User
		id   uuid.UUID
	)
	err := row.Scan(&id, &user.Email, &user.Name, &user.Phone, &user.PasswordHash, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, sentinel.ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.ID = domain.UserID(id)
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresProfileStore persists candidate profiles.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfiles(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Create(ctx context.Context, profile Profile) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO profiles (id, user_id, resume_url, skills, linkedin, summary, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, uuid.UUID(profile.ID), uuid.UUID(profile.UserID), profile.ResumeURL,
		pq.Array(profile.Skills), profile.LinkedIn, profile.Summary, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) FindByUser(ctx context.Context, userID domain.UserID) (Profile, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
SELECT id, user_id, resume_url, skills, linkedin, summary, created_at, updated_at
FROM profiles WHERE user_id = $1
`, uuid.UUID(userID))

	var (
		profile Profile
		id      uuid.UUID
		uid     uuid.UUID
		skills  pq.StringArray
	)
	err := row.Scan(&id, &uid, &profile.ResumeURL, &skills, &profile.LinkedIn, &profile.Summary, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, sentinel.ErrNotFound
		}
		return Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	profile.ID = domain.ProfileID(id)
	profile.UserID = domain.UserID(uid)
	profile.Skills = skills
	return profile, nil
}

func (s *PostgresProfileStore) Update(ctx context.Context, profile Profile) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
UPDATE profiles SET resume_url = $1, skills = $2, linkedin = $3, summary = $4, updated_at = $5
WHERE id = $6
`, profile.ResumeURL, pq.Array(profile.Skills), profile.LinkedIn, profile.Summary, profile.UpdatedAt, uuid.UUID(profile.ID))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
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

func (s *PostgresProfileStore) ReplaceExperience(ctx context.Context, profileID domain.ProfileID, entries []WorkExperience) error {
	q := tx.Resolve(ctx, s.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM profile_experience WHERE profile_id = $1`, uuid.UUID(profileID)); err != nil {
		return fmt.Errorf("clear experience: %w", err)
	}
	for _, e := range entries {
		_, err := q.ExecContext(ctx, `
INSERT INTO profile_experience (profile_id, company, title, start_year, end_year, summary)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.UUID(profileID), e.Company, e.Title, e.StartYear, e.EndYear, e.Summary)
		if err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}
	return nil
}

func (s *PostgresProfileStore) ReplaceEducation(ctx context.Context, profileID domain.ProfileID, entries []Education) error {
	q := tx.Resolve(ctx, s.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM profile_education WHERE profile_id = $1`, uuid.UUID(profileID)); err != nil {
		return fmt.Errorf("clear education: %w", err)
	}
	for _, e := range entries {
		_, err := q.ExecContext(ctx, `
INSERT INTO profile_education (profile_id, institution, degree, field, end_year)
VALUES ($1,$2,$3,$4,$5)
`, uuid.UUID(profileID), e.Institution, e.Degree, e.Field, e.EndYear)
		if err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}
	return nil
}

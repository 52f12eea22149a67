//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"talentgate/internal/application/models"
	"talentgate/internal/application/store"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/platform/tx"
	"talentgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	notes    *store.PostgresNoteStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	var err error
	s.store, err = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(err)
	s.notes = store.NewPostgresNotes(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "application_notes", "applications")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newApplication() models.Application {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.Application{
		ID:             domain.NewApplicationID(),
		JobID:          domain.NewJobID(),
		CandidateID:    domain.NewUserID(),
		Status:         models.StatusPending,
		ApplicantName:  "Dana Reyes",
		ApplicantEmail: "dana@example.com",
		ApplicantPhone: "+12025550147",
		ResumeURL:      "https://cdn.example/cv.pdf",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundtrip() {
	ctx := context.Background()
	app := s.newApplication()

	s.Require().NoError(s.store.Create(ctx, app))

	got, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.ID, got.ID)
	s.Equal(app.Status, got.Status)
	s.Equal(app.ApplicantEmail, got.ApplicantEmail)

	got, err = s.store.FindByJobAndCandidate(ctx, app.JobID, app.CandidateID)
	s.Require().NoError(err)
	s.Equal(app.ID, got.ID)
}

func (s *PostgresStoreSuite) TestDuplicateJobCandidatePairRejected() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))

	dup := s.newApplication()
	dup.JobID = app.JobID
	dup.CandidateID = app.CandidateID
	err := s.store.Create(ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestGuardedStatusUpdate() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))
	at := time.Now().UTC().Truncate(time.Microsecond)

	// Guard mismatch reports a stale write.
	err := s.store.UpdateStatus(ctx, app.ID, models.StatusReviewed, models.StatusShortlisted, at)
	s.Require().ErrorIs(err, sentinel.ErrStale)

	// Matching guard applies status and stage timestamp together.
	s.Require().NoError(s.store.UpdateStatus(ctx, app.ID, models.StatusPending, models.StatusReviewed, at))
	got, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusReviewed, got.Status)
	s.Require().NotNil(got.ReviewedAt)
	s.WithinDuration(at, *got.ReviewedAt, time.Millisecond)

	// Unknown row is not-found, not stale.
	err = s.store.UpdateStatus(ctx, domain.NewApplicationID(), models.StatusPending, models.StatusReviewed, at)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSetAnalysis() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))

	score := 84.5
	result := json.RawMessage(`{"summary":"solid"}`)
	at := time.Now().UTC()
	s.Require().NoError(s.store.SetAnalysis(ctx, app.ID, result, &score, models.StatusAnalyzed, at))

	got, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAnalyzed, got.Status)
	s.Require().NotNil(got.AnalysisScore)
	s.Equal(score, *got.AnalysisScore)
	s.JSONEq(string(result), string(got.AnalysisResult))
}

func (s *PostgresStoreSuite) TestAppendOperationalNote() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))

	at := time.Now().UTC()
	s.Require().NoError(s.store.AppendOperationalNote(ctx, app.ID, "room provisioning failed: boom", at))
	s.Require().NoError(s.store.AppendOperationalNote(ctx, app.ID, "second line", at))

	got, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Contains(got.Notes, "room provisioning failed")
	s.Contains(got.Notes, "second line")
}

func (s *PostgresStoreSuite) TestDeleteReportsRemoval() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))

	removed, err := s.store.Delete(ctx, app.ID)
	s.Require().NoError(err)
	s.True(removed)

	removed, err = s.store.Delete(ctx, app.ID)
	s.Require().NoError(err)
	s.False(removed)
}

func (s *PostgresStoreSuite) TestRollbackLeavesNoRow() {
	ctx := context.Background()
	app := s.newApplication()

	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(ctx, sqlTx)

	s.Require().NoError(s.store.Create(txCtx, app))
	s.Require().NoError(sqlTx.Rollback())

	_, err = s.store.FindByID(ctx, app.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestNotesLifecycle() {
	ctx := context.Background()
	app := s.newApplication()
	s.Require().NoError(s.store.Create(ctx, app))

	now := time.Now().UTC().Truncate(time.Microsecond)
	note := models.Note{
		ID:            domain.NewNoteID(),
		ApplicationID: app.ID,
		AuthorID:      domain.NewUserID(),
		Text:          "strong portfolio",
		Visibility:    models.NoteInternal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Require().NoError(s.notes.Create(ctx, note))

	listed, err := s.notes.ListByApplication(ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(note.Text, listed[0].Text)

	s.Require().NoError(s.notes.Update(ctx, note.ID, "updated", models.NoteShared, now.Add(time.Minute)))
	got, err := s.notes.FindByID(ctx, note.ID)
	s.Require().NoError(err)
	s.Equal("updated", got.Text)
	s.Equal(models.NoteShared, got.Visibility)

	removed, err := s.notes.Delete(ctx, note.ID)
	s.Require().NoError(err)
	s.True(removed)
}

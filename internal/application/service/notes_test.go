package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/internal/application/models"
	"talentgate/internal/audit"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
)

func TestAddNote(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)
	author := domain.NewUserID()

	note, err := f.engine.AddNote(testCtx(author), app.ID, "solid take-home submission", models.NoteInternal)
	require.NoError(t, err)
	assert.Equal(t, author, note.AuthorID)
	assert.Equal(t, models.NoteInternal, note.Visibility)

	notes, err := f.engine.ListNotes(testCtx(author), app.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
}

func TestAddNote_RequiresAuthAndText(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)

	_, err := f.engine.AddNote(testCtx(domain.UserID{}), app.ID, "text", models.NoteInternal)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	_, err = f.engine.AddNote(testCtx(domain.NewUserID()), app.ID, "", models.NoteInternal)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeValidation))

	_, err = f.engine.AddNote(testCtx(domain.NewUserID()), app.ID, "text", "LOUD")
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeValidation))
}

func TestUpdateNote_AuthorMayEdit(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)
	author := domain.NewUserID()

	note, err := f.engine.AddNote(testCtx(author), app.ID, "draft", models.NoteInternal)
	require.NoError(t, err)

	// Even with staff access denied, the author can still edit their note.
	f.ownership.accessErr = domerrors.New(domerrors.CodeForbidden, "no org access")
	updated, err := f.engine.UpdateNote(testCtx(author), note.ID, "final", models.NoteShared)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Equal(t, models.NoteShared, updated.Visibility)

	_, err = f.engine.UpdateNote(testCtx(domain.NewUserID()), note.ID, "hijack", models.NoteShared)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeForbidden))
}

func TestDeleteNote(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)
	author := domain.NewUserID()

	note, err := f.engine.AddNote(testCtx(author), app.ID, "temp", models.NoteInternal)
	require.NoError(t, err)

	removed, err := f.engine.DeleteNote(testCtx(author), note.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.engine.DeleteNote(testCtx(author), note.ID)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeNotFound))
}

func TestListNotes_CandidateSeesSharedOnly(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)
	staff := domain.NewUserID()

	_, err := f.engine.AddNote(testCtx(staff), app.ID, "internal remark", models.NoteInternal)
	require.NoError(t, err)
	_, err = f.engine.AddNote(testCtx(staff), app.ID, "shared feedback", models.NoteShared)
	require.NoError(t, err)

	notes, err := f.engine.ListNotes(testCtx(app.CandidateID), app.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "shared feedback", notes[0].Text)

	notes, err = f.engine.ListNotes(testCtx(staff), app.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestRemove_AuditsOnlyWhenRowRemoved(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)

	removed, err := f.engine.Remove(testCtx(app.CandidateID), app.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	events, err := f.auditLog.ListByApplication(context.Background(), app.ID)
	require.NoError(t, err)
	var removals int
	for _, e := range events {
		if e.Action == audit.EventApplicationRemoved {
			removals++
		}
	}
	assert.Equal(t, 1, removals)

	// Second remove finds nothing and must not add another audit event.
	_, err = f.engine.Remove(testCtx(app.CandidateID), app.ID)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeNotFound))

	events, err = f.auditLog.ListByApplication(context.Background(), app.ID)
	require.NoError(t, err)
	removals = 0
	for _, e := range events {
		if e.Action == audit.EventApplicationRemoved {
			removals++
		}
	}
	assert.Equal(t, 1, removals)
}

func TestRemove_Forbidden(t *testing.T) {
	f := newFixture(t, nil)
	app := seedApplication(t, f, models.StatusPending)
	f.ownership.accessErr = domerrors.New(domerrors.CodeForbidden, "not yours")

	_, err := f.engine.Remove(testCtx(domain.NewUserID()), app.ID)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeForbidden))

	_, err = f.apps.FindByID(context.Background(), app.ID)
	require.NoError(t, err)
}

package service

import (
	"context"

	"talentgate/internal/application/models"
	"talentgate/internal/audit"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/requestcontext"
)

// AddNote attaches a staff annotation to an application. The author is the
// acting user; access is checked against the parent application.
func (e *Engine) AddNote(ctx context.Context, appID domain.ApplicationID, text string, visibility models.NoteVisibility) (models.Note, error) {
	if text == "" {
		return models.Note{}, domerrors.New(domerrors.CodeValidation, "note text is required")
	}
	if visibility != models.NoteInternal && visibility != models.NoteShared {
		return models.Note{}, domerrors.Newf(domerrors.CodeValidation, "unknown note visibility %q", string(visibility))
	}

	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		return models.Note{}, domerrors.New(domerrors.CodeUnauthorized, "authentication required")
	}

	app, err := e.deps.Applications.FindByID(ctx, appID)
	if err != nil {
		return models.Note{}, mapStoreErr(err, "application not found")
	}
	if err := e.deps.Ownership.VerifyApplicationAccess(ctx, app, actor); err != nil {
		return models.Note{}, err
	}

	now := requestcontext.Now(ctx)
	note := models.Note{
		ID:            domain.NewNoteID(),
		ApplicationID: appID,
		AuthorID:      actor,
		Text:          text,
		Visibility:    visibility,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.deps.Notes.Create(ctx, note); err != nil {
		return models.Note{}, mapStoreErr(err, "application not found")
	}

	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventNoteAdded,
		ApplicationID: appID,
		JobID:         app.JobID,
		ActorID:       actor,
	})
	return note, nil
}

// UpdateNote edits a note's text and visibility. Permitted for the note's
// author, or for staff with access to the parent application.
func (e *Engine) UpdateNote(ctx context.Context, noteID domain.NoteID, text string, visibility models.NoteVisibility) (models.Note, error) {
	if text == "" {
		return models.Note{}, domerrors.New(domerrors.CodeValidation, "note text is required")
	}
	if visibility != models.NoteInternal && visibility != models.NoteShared {
		return models.Note{}, domerrors.Newf(domerrors.CodeValidation, "unknown note visibility %q", string(visibility))
	}

	note, err := e.deps.Notes.FindByID(ctx, noteID)
	if err != nil {
		return models.Note{}, mapStoreErr(err, "note not found")
	}
	if err := e.authorizeNoteEdit(ctx, note); err != nil {
		return models.Note{}, err
	}

	now := requestcontext.Now(ctx)
	if err := e.deps.Notes.Update(ctx, noteID, text, visibility, now); err != nil {
		return models.Note{}, mapStoreErr(err, "note not found")
	}

	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventNoteUpdated,
		ApplicationID: note.ApplicationID,
		ActorID:       requestcontext.UserID(ctx),
	})

	note.Text = text
	note.Visibility = visibility
	note.UpdatedAt = now
	return note, nil
}

// DeleteNote removes a note under the same author-or-staff rule as
// UpdateNote. Reports whether a row was removed.
func (e *Engine) DeleteNote(ctx context.Context, noteID domain.NoteID) (bool, error) {
	note, err := e.deps.Notes.FindByID(ctx, noteID)
	if err != nil {
		return false, mapStoreErr(err, "note not found")
	}
	if err := e.authorizeNoteEdit(ctx, note); err != nil {
		return false, err
	}

	removed, err := e.deps.Notes.Delete(ctx, noteID)
	if err != nil {
		return false, mapStoreErr(err, "note not found")
	}
	if removed {
		e.deps.Audit.Emit(ctx, audit.Event{
			Action:        audit.EventNoteRemoved,
			ApplicationID: note.ApplicationID,
			ActorID:       requestcontext.UserID(ctx),
		})
	}
	return removed, nil
}

// ListNotes returns an application's notes for a user with access to it.
func (e *Engine) ListNotes(ctx context.Context, appID domain.ApplicationID) ([]models.Note, error) {
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "authentication required")
	}

	app, err := e.deps.Applications.FindByID(ctx, appID)
	if err != nil {
		return nil, mapStoreErr(err, "application not found")
	}
	if err := e.deps.Ownership.VerifyApplicationAccess(ctx, app, actor); err != nil {
		return nil, err
	}

	notes, err := e.deps.Notes.ListByApplication(ctx, appID)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "failed to list notes")
	}

	// The candidate only ever sees shared annotations.
	if actor == app.CandidateID {
		shared := notes[:0]
		for _, n := range notes {
			if n.Visibility == models.NoteShared {
				shared = append(shared, n)
			}
		}
		notes = shared
	}
	return notes, nil
}

// authorizeNoteEdit lets the note's author through directly, and anyone else
// through the ownership check against the parent application.
func (e *Engine) authorizeNoteEdit(ctx context.Context, note models.Note) error {
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		return domerrors.New(domerrors.CodeUnauthorized, "authentication required")
	}
	if actor == note.AuthorID {
		return nil
	}
	app, err := e.deps.Applications.FindByID(ctx, note.ApplicationID)
	if err != nil {
		return mapStoreErr(err, "application not found")
	}
	return e.deps.Ownership.VerifyApplicationAccess(ctx, app, actor)
}

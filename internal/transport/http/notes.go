package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentgate/internal/application/models"
	"talentgate/pkg/domain"
)

type noteRequest struct {
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
}

type noteResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	AuthorID      string    `json:"author_id"`
	Text          string    `json:"text"`
	Visibility    string    `json:"visibility"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toNoteResponse(n models.Note) noteResponse {
	return noteResponse{
		ID:            n.ID.String(),
		ApplicationID: n.ApplicationID.String(),
		AuthorID:      n.AuthorID.String(),
		Text:          n.Text,
		Visibility:    string(n.Visibility),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	appID, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	note, err := h.engine.AddNote(r.Context(), appID, req.Text, models.NoteVisibility(req.Visibility))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	appID, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	notes, err := h.engine.ListNotes(r.Context(), appID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := domain.ParseNoteID(chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	note, err := h.engine.UpdateNote(r.Context(), noteID, req.Text, models.NoteVisibility(req.Visibility))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := domain.ParseNoteID(chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	removed, err := h.engine.DeleteNote(r.Context(), noteID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

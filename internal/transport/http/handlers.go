// Package http exposes the lifecycle engine over a JSON API. Handlers
// decode, call one engine operation, and encode; every policy decision
// lives in the engine.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/application/service"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
)

// Handler carries the transport dependencies.
type Handler struct {
	engine *service.Engine
	logger *slog.Logger
}

func NewHandler(engine *service.Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

type applicationRequest struct {
	JobID          string `json:"job_id"`
	CandidateID    string `json:"candidate_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
	CoverLetter    string `json:"cover_letter,omitempty"`
	ResumeURL      string `json:"resume_url,omitempty"`
	ExpectedSalary string `json:"expected_salary,omitempty"`
	NoticePeriod   string `json:"notice_period,omitempty"`
}

type applicationResponse struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id"`
	Status      string `json:"status"`

	ApplicantName     string `json:"applicant_name,omitempty"`
	ApplicantEmail    string `json:"applicant_email,omitempty"`
	ApplicantPhone    string `json:"applicant_phone,omitempty"`
	ApplicantLinkedIn string `json:"applicant_linkedin,omitempty"`

	CoverLetter    string `json:"cover_letter,omitempty"`
	ResumeURL      string `json:"resume_url,omitempty"`
	ExpectedSalary string `json:"expected_salary,omitempty"`
	NoticePeriod   string `json:"notice_period,omitempty"`

	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	InterviewedAt *time.Time `json:"interviewed_at,omitempty"`
	RejectedAt    *time.Time `json:"rejected_at,omitempty"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`

	AnalysisResult json.RawMessage `json:"analysis_result,omitempty"`
	AnalysisScore  *float64        `json:"analysis_score,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toApplicationResponse(app models.Application) applicationResponse {
	return applicationResponse{
		ID:                app.ID.String(),
		JobID:             app.JobID.String(),
		CandidateID:       app.CandidateID.String(),
		Status:            string(app.Status),
		ApplicantName:     app.ApplicantName,
		ApplicantEmail:    app.ApplicantEmail,
		ApplicantPhone:    app.ApplicantPhone,
		ApplicantLinkedIn: app.ApplicantLinkedIn,
		CoverLetter:       app.CoverLetter,
		ResumeURL:         app.ResumeURL,
		ExpectedSalary:    app.ExpectedSalary,
		NoticePeriod:      app.NoticePeriod,
		ReviewedAt:        app.ReviewedAt,
		InterviewedAt:     app.InterviewedAt,
		RejectedAt:        app.RejectedAt,
		AcceptedAt:        app.AcceptedAt,
		AnalysisResult:    app.AnalysisResult,
		AnalysisScore:     app.AnalysisScore,
		Notes:             app.Notes,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domerrors.Wrap(err, domerrors.CodeValidation, "malformed request body")
	}
	return nil
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	jobID, err := domain.ParseJobID(req.JobID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	// Omitted candidate means the caller applies for themselves.
	candidateID := actingUser(r)
	if req.CandidateID != "" {
		if candidateID, err = domain.ParseUserID(req.CandidateID); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	if candidateID.IsNil() {
		writeError(w, r, h.logger, domerrors.New(domerrors.CodeUnauthorized, "authentication required"))
		return
	}

	app, err := h.engine.Create(r.Context(), service.CreateInput{
		JobID:          jobID,
		CandidateID:    candidateID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		LinkedIn:       req.LinkedIn,
		CoverLetter:    req.CoverLetter,
		ResumeURL:      req.ResumeURL,
		ExpectedSalary: req.ExpectedSalary,
		NoticePeriod:   req.NoticePeriod,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

type anonymousResponse struct {
	Application applicationResponse `json:"application"`
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Token    string `json:"token,omitempty"`
	} `json:"credentials"`
}

func (h *Handler) createAnonymous(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	jobID, err := domain.ParseJobID(req.JobID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, bundle, err := h.engine.CreateAnonymous(r.Context(), service.AnonymousInput{
		JobID:          jobID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		LinkedIn:       req.LinkedIn,
		CoverLetter:    req.CoverLetter,
		ResumeURL:      req.ResumeURL,
		ExpectedSalary: req.ExpectedSalary,
		NoticePeriod:   req.NoticePeriod,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var resp anonymousResponse
	resp.Application = toApplicationResponse(app)
	resp.Credentials.Email = bundle.Email
	resp.Credentials.Password = bundle.Password
	resp.Credentials.Token = bundle.Token
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	app, err := h.engine.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) listByJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := domain.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	limit, offset := pagination(r)
	apps, err := h.engine.ListByJob(r.Context(), jobID, limit, offset)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationList(apps))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor := actingUser(r)
	if actor.IsNil() {
		writeError(w, r, h.logger, domerrors.New(domerrors.CodeUnauthorized, "authentication required"))
		return
	}
	limit, offset := pagination(r)
	apps, err := h.engine.ListByCandidate(r.Context(), actor, limit, offset)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationList(apps))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.engine.UpdateStatus(r.Context(), id, models.Status(req.Status))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

type analysisCallbackRequest struct {
	ApplicationID string                  `json:"application_id"`
	Score         *float64                `json:"score,omitempty"`
	Result        json.RawMessage         `json:"result,omitempty"`
	Extracted     *analysis.ExtractedInfo `json:"extracted,omitempty"`
}

func (h *Handler) analysisCallback(w http.ResponseWriter, r *http.Request) {
	var req analysisCallbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	appID, err := domain.ParseApplicationID(req.ApplicationID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.engine.ReportAnalysis(r.Context(), analysis.Report{
		ApplicationID: appID,
		Score:         req.Score,
		Result:        req.Result,
		Extracted:     req.Extracted,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) removeApplication(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	removed, err := h.engine.Remove(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func toApplicationList(apps []models.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}

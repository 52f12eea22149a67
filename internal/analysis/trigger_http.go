package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// HTTPTrigger asks a remote analyzer to process a resume by POSTing the
// trigger request to its /analyze endpoint.
type HTTPTrigger struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTrigger(baseURL string) *HTTPTrigger {
	return &HTTPTrigger{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type triggerPayload struct {
	ApplicationID string `json:"application_id"`
	CandidateID   string `json:"candidate_id"`
	JobID         string `json:"job_id"`
	ResumeURL     string `json:"resume_url"`
	CallbackURL   string `json:"callback_url"`
}

func (t *HTTPTrigger) TriggerAnalysis(ctx context.Context, req TriggerRequest) error {
	body, err := json.Marshal(triggerPayload{
		ApplicationID: req.ApplicationID.String(),
		CandidateID:   req.CandidateID.String(),
		JobID:         req.JobID.String(),
		ResumeURL:     req.ResumeURL,
		CallbackURL:   req.CallbackURL,
	})
	if err != nil {
		return fmt.Errorf("encode analysis trigger: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build analysis trigger: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send analysis trigger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("analysis trigger rejected: status %d", resp.StatusCode)
	}
	return nil
}

// LogTrigger records the trigger without calling anything. Used when no
// analyzer endpoint is configured, so development environments still show
// the full flow in logs.
type LogTrigger struct {
	Logger *slog.Logger
}

func (t LogTrigger) TriggerAnalysis(ctx context.Context, req TriggerRequest) error {
	t.Logger.InfoContext(ctx, "analysis trigger skipped, no analyzer configured",
		"application_id", req.ApplicationID.String(),
		"resume_url", req.ResumeURL,
	)
	return nil
}

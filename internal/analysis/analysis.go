// Package analysis defines the CV-analysis collaborator: the outbound
// trigger the engine fires after commit, and the inbound callback payload it
// validates before applying. Every extracted attribute is an explicit
// optional field, not a free-form map; the boundary validates before anything
// touches the identity or profile.
package analysis

import (
	"context"
	"encoding/json"

	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
)

// Trigger asks the external analysis service to process a resume. Invoked
// post-commit, fire-and-forget; results arrive later via the callback.
type Trigger interface {
	TriggerAnalysis(ctx context.Context, req TriggerRequest) error
}

// TriggerRequest identifies what to analyze and where to report back.
type TriggerRequest struct {
	ApplicationID domain.ApplicationID
	CandidateID   domain.UserID
	JobID         domain.JobID
	ResumeURL     string
	CallbackURL   string
}

// ExtractedExperience is one structured work-history entry from the CV.
type ExtractedExperience struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	StartYear int    `json:"startYear,omitempty"`
	EndYear   int    `json:"endYear,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// ExtractedEducation is one structured education entry from the CV.
type ExtractedEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	EndYear     int    `json:"endYear,omitempty"`
}

// ExtractedInfo carries candidate attributes recovered from the CV. Pointer
// fields distinguish "absent" from "empty".
type ExtractedInfo struct {
	Email      *string               `json:"email,omitempty"`
	Name       *string               `json:"name,omitempty"`
	Phone      *string               `json:"phone,omitempty"`
	Summary    *string               `json:"summary,omitempty"`
	Skills     []string              `json:"skills,omitempty"`
	Experience []ExtractedExperience `json:"experience,omitempty"`
	Education  []ExtractedEducation  `json:"education,omitempty"`
}

// Report is the inbound callback payload.
type Report struct {
	ApplicationID domain.ApplicationID
	Score         *float64
	Result        json.RawMessage
	Extracted     *ExtractedInfo
}

// Validate rejects malformed callback payloads before they are applied.
func (r Report) Validate() error {
	if r.ApplicationID.IsNil() {
		return domerrors.New(domerrors.CodeValidation, "application ID is required")
	}
	if r.Score != nil && (*r.Score < 0 || *r.Score > 100) {
		return domerrors.New(domerrors.CodeValidation, "analysis score must be between 0 and 100")
	}
	if r.Extracted != nil {
		if r.Extracted.Email != nil && !contact.ValidEmail(*r.Extracted.Email) {
			return domerrors.New(domerrors.CodeValidation, "extracted email is malformed")
		}
		if r.Extracted.Phone != nil {
			normalized := contact.NormalizePhone(*r.Extracted.Phone)
			if !contact.ValidPhone(normalized) {
				return domerrors.New(domerrors.CodeValidation, "extracted phone is malformed")
			}
		}
	}
	return nil
}

package service

import (
	"context"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/application/status"
	"talentgate/internal/audit"
	"talentgate/internal/identity"
	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/requestcontext"
)

// ReportAnalysis applies an external analysis result.
//
// This is the one path that sets status without consulting the transition
// table: the external system is asserting completion, so the status is
// forced to ANALYZED. The single guard is terminality - a finalized
// application never reopens, and a late callback against one is rejected
// with CodeConflict instead of silently overwriting the decision.
//
// Extracted candidate info only ever replaces placeholder identity data;
// the application's applicant-supplied snapshot fields are never touched.
func (e *Engine) ReportAnalysis(ctx context.Context, report analysis.Report) (models.Application, error) {
	if err := report.Validate(); err != nil {
		return models.Application{}, err
	}

	app, err := e.deps.Applications.FindByID(ctx, report.ApplicationID)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "application not found")
	}
	if status.Terminal(app.Status) {
		return models.Application{}, domerrors.Newf(domerrors.CodeConflict,
			"analysis result rejected: application already finalized as %s", string(app.Status))
	}

	now := requestcontext.Now(ctx)

	var notifyProfileDone bool
	var candidate identity.User
	err = e.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.deps.Applications.SetAnalysis(ctx, report.ApplicationID,
			report.Result, report.Score, models.StatusAnalyzed, now); err != nil {
			return mapStoreErr(err, "application not found")
		}
		if report.Extracted == nil {
			return nil
		}

		var err error
		candidate, err = e.deps.Users.FindByID(ctx, app.CandidateID)
		if err != nil {
			return mapStoreErr(err, "candidate not found")
		}

		if updated, changed := enrichedContact(candidate, *report.Extracted); changed {
			if err := e.deps.Users.UpdateContact(ctx, candidate.ID,
				updated.Email, updated.Name, updated.Phone); err != nil {
				return mapStoreErr(err, "candidate not found")
			}
			candidate = updated
		}

		return e.applyExtractedProfile(ctx, app.CandidateID, *report.Extracted)
	})
	if err != nil {
		return models.Application{}, err
	}

	if report.Extracted != nil {
		notifyProfileDone = !contact.IsPlaceholderEmail(candidate.Email) && contact.Usable(candidate.Phone)
	}

	e.deps.Metrics.AnalysisCallbacks.Inc()
	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventAnalysisApplied,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		FromStatus:    string(app.Status),
		ToStatus:      string(models.StatusAnalyzed),
	})

	if notifyProfileDone {
		candidateID := app.CandidateID
		e.deps.Runner.Go(ctx, "notify_profile_completed", func(ctx context.Context) error {
			return e.deps.Notifier.Notify(ctx, candidateID,
				"Your profile is complete",
				"We filled in your profile from your CV. Log in to review it.",
				map[string]string{"application_id": app.ID.String()})
		})
	}

	updated, err := e.deps.Applications.FindByID(ctx, report.ApplicationID)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "application not found")
	}
	return updated, nil
}

// enrichedContact merges extracted contact info into the identity. Extracted
// email and name apply only while the stored email is still a placeholder;
// an extracted phone replaces a placeholder phone independently.
func enrichedContact(user identity.User, ex analysis.ExtractedInfo) (identity.User, bool) {
	changed := false
	if contact.IsPlaceholderEmail(user.Email) {
		if ex.Email != nil && contact.ValidEmail(*ex.Email) {
			user.Email = contact.NormalizeEmail(*ex.Email)
			changed = true
		}
		if ex.Name != nil && *ex.Name != "" {
			user.Name = *ex.Name
			changed = true
		}
	}
	if contact.IsPlaceholderPhone(user.Phone) && ex.Phone != nil {
		if phone := contact.NormalizePhone(*ex.Phone); contact.ValidPhone(phone) {
			user.Phone = phone
			changed = true
		}
	}
	return user, changed
}

// applyExtractedProfile writes structured CV data onto the candidate's
// profile. Experience and education child rows are replaced wholesale so
// repeated callbacks never accumulate duplicates.
func (e *Engine) applyExtractedProfile(ctx context.Context, candidateID domain.UserID, ex analysis.ExtractedInfo) error {
	profile, err := e.deps.Profiles.FindByUser(ctx, candidateID)
	if err != nil {
		return mapStoreErr(err, "candidate profile not found")
	}

	dirty := false
	if ex.Summary != nil && *ex.Summary != "" {
		profile.Summary = *ex.Summary
		dirty = true
	}
	if len(ex.Skills) > 0 {
		profile.Skills = ex.Skills
		dirty = true
	}
	if dirty {
		if err := e.deps.Profiles.Update(ctx, profile); err != nil {
			return mapStoreErr(err, "candidate profile not found")
		}
	}

	if len(ex.Experience) > 0 {
		entries := make([]identity.WorkExperience, 0, len(ex.Experience))
		for _, w := range ex.Experience {
			entries = append(entries, identity.WorkExperience{
				Company:   w.Company,
				Title:     w.Title,
				StartYear: w.StartYear,
				EndYear:   w.EndYear,
				Summary:   w.Summary,
			})
		}
		if err := e.deps.Profiles.ReplaceExperience(ctx, profile.ID, entries); err != nil {
			return mapStoreErr(err, "candidate profile not found")
		}
	}
	if len(ex.Education) > 0 {
		entries := make([]identity.Education, 0, len(ex.Education))
		for _, ed := range ex.Education {
			entries = append(entries, identity.Education{
				Institution: ed.Institution,
				Degree:      ed.Degree,
				Field:       ed.Field,
				EndYear:     ed.EndYear,
			})
		}
		if err := e.deps.Profiles.ReplaceEducation(ctx, profile.ID, entries); err != nil {
			return mapStoreErr(err, "candidate profile not found")
		}
	}
	return nil
}

// Package status holds the pure transition rules for the application
// lifecycle. No I/O: every status-changing operation calls Validate against
// the current persisted status before writing.
package status

import (
	"talentgate/internal/application/models"
	"talentgate/pkg/domerrors"
)

// allowed is the complete edge table. A status absent from the map (or an
// empty set) has no outgoing edges.
var allowed = map[models.Status]map[models.Status]bool{
	models.StatusPending: {
		models.StatusReviewed: true,
		models.StatusAnalyzed: true,
		models.StatusRejected: true,
	},
	models.StatusReviewed: {
		models.StatusAnalyzed:    true,
		models.StatusShortlisted: true,
		models.StatusInterviewed: true,
		models.StatusRejected:    true,
	},
	models.StatusAnalyzed: {
		models.StatusReviewed:    true,
		models.StatusShortlisted: true,
		models.StatusInterviewed: true,
		models.StatusRejected:    true,
	},
	models.StatusShortlisted: {
		models.StatusInterviewed: true,
		models.StatusRejected:    true,
	},
	models.StatusInterviewed: {
		models.StatusOffered:  true,
		models.StatusRejected: true,
	},
	models.StatusOffered: {
		models.StatusHired:    true,
		models.StatusRejected: true,
	},
	// HIRED, REJECTED and WITHDRAWN are terminal. WITHDRAWN is reachable
	// (candidate-initiated, outside this engine) but never escapable here.
}

// Terminal reports whether s has no outgoing edges.
func Terminal(s models.Status) bool {
	return len(allowed[s]) == 0 && s.Known()
}

// Validate reports whether the transition current -> requested is allowed.
// The returned error names both endpoints so callers can explain the
// rejection to a human.
func Validate(current, requested models.Status) error {
	if !requested.Known() {
		return domerrors.Newf(domerrors.CodeValidation, "unknown status %q", string(requested))
	}
	if allowed[current][requested] {
		return nil
	}
	return domerrors.Newf(domerrors.CodeInvalidTransition,
		"cannot transition application from %s to %s", string(current), string(requested))
}

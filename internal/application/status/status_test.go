package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/internal/application/models"
	"talentgate/pkg/domerrors"
)

var all = []models.Status{
	models.StatusPending,
	models.StatusAnalyzed,
	models.StatusReviewed,
	models.StatusShortlisted,
	models.StatusInterviewed,
	models.StatusOffered,
	models.StatusHired,
	models.StatusRejected,
	models.StatusWithdrawn,
}

// edges mirrors the allowed-edge table; the test iterates the full cross
// product so any drift between table and rules fails loudly.
var edges = map[models.Status][]models.Status{
	models.StatusPending:     {models.StatusReviewed, models.StatusAnalyzed, models.StatusRejected},
	models.StatusReviewed:    {models.StatusAnalyzed, models.StatusShortlisted, models.StatusInterviewed, models.StatusRejected},
	models.StatusAnalyzed:    {models.StatusReviewed, models.StatusShortlisted, models.StatusInterviewed, models.StatusRejected},
	models.StatusShortlisted: {models.StatusInterviewed, models.StatusRejected},
	models.StatusInterviewed: {models.StatusOffered, models.StatusRejected},
	models.StatusOffered:     {models.StatusHired, models.StatusRejected},
}

func allowedPair(current, requested models.Status) bool {
	for _, to := range edges[current] {
		if to == requested {
			return true
		}
	}
	return false
}

func TestValidate_FullCrossProduct(t *testing.T) {
	for _, from := range all {
		for _, to := range all {
			err := Validate(from, to)
			if allowedPair(from, to) {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
			} else {
				require.Error(t, err, "%s -> %s should be rejected", from, to)
				assert.True(t, domerrors.HasCode(err, domerrors.CodeInvalidTransition))
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(to))
			}
		}
	}
}

func TestValidate_SameStateRejected(t *testing.T) {
	for _, s := range all {
		assert.Error(t, Validate(s, s), "%s -> %s must not be an edge", s, s)
	}
}

func TestValidate_UnknownStatus(t *testing.T) {
	err := Validate(models.StatusPending, models.Status("ARCHIVED"))
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeValidation))
}

func TestTerminalStates(t *testing.T) {
	terminal := map[models.Status]bool{
		models.StatusHired:     true,
		models.StatusRejected:  true,
		models.StatusWithdrawn: true,
	}
	for _, s := range all {
		assert.Equal(t, terminal[s], Terminal(s), "terminal(%s)", s)
	}
	// Unknown strings are not terminal, they are invalid.
	assert.False(t, Terminal(models.Status("ARCHIVED")))
}

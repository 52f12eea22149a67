package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"talentgate/internal/application/models"
)

func TestStatusMessageCoversNotifiableStatusesOnly(t *testing.T) {
	notified := []models.Status{
		models.StatusReviewed,
		models.StatusShortlisted,
		models.StatusInterviewed,
		models.StatusOffered,
		models.StatusHired,
		models.StatusRejected,
	}
	for _, s := range notified {
		title, body, ok := StatusMessage(s)
		assert.True(t, ok, "expected a message for %s", s)
		assert.NotEmpty(t, title)
		assert.NotEmpty(t, body)
	}

	silent := []models.Status{
		models.StatusPending,
		models.StatusAnalyzed,
		models.StatusWithdrawn,
	}
	for _, s := range silent {
		_, _, ok := StatusMessage(s)
		assert.False(t, ok, "no message expected for %s", s)
	}
}

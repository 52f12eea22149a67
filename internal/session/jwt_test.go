package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
)

func TestJWTIssuer_IssueAndValidate(t *testing.T) {
	store := NewMemory()
	issuer := NewJWTIssuer("test-signing-key", "talentgate-test", time.Hour, store)
	userID := domain.NewUserID()

	sess, err := issuer.Issue(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, userID, sess.UserID)
	assert.True(t, sess.ExpiresAt.After(sess.IssuedAt))

	stored, err := store.FindByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, stored.Token)

	claims, err := issuer.Validate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, sess.ID.String(), claims.SessionID)
}

func TestJWTIssuer_RejectsForeignToken(t *testing.T) {
	store := NewMemory()
	issuer := NewJWTIssuer("key-one", "talentgate-test", time.Hour, store)
	other := NewJWTIssuer("key-two", "talentgate-test", time.Hour, store)

	sess, err := other.Issue(context.Background(), domain.NewUserID())
	require.NoError(t, err)

	_, err = issuer.Validate(sess.Token)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeUnauthorized))

	_, err = issuer.Validate("not-a-token")
	require.Error(t, err)
}

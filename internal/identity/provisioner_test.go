package identity

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/pkg/contact"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/requestcontext"
)

func newProvisioner() (*Provisioner, *MemoryUserStore, *MemoryProfileStore) {
	users := NewMemoryUsers()
	profiles := NewMemoryProfiles()
	return NewProvisioner(users, profiles, slog.Default()), users, profiles
}

func TestProvision_WithSuppliedContact(t *testing.T) {
	p, users, profiles := newProvisioner()
	ctx := context.Background()

	res, err := p.Provision(ctx, ProvisionInput{
		Email:     "Jane.Doe@Example.com",
		Name:      "Jane Doe",
		Phone:     "+962791234567",
		ResumeURL: "https://cdn.example.com/cv/jane.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", res.Email)
	assert.Equal(t, "+962791234567", res.Phone)
	assert.NotEmpty(t, res.Password)

	user, err := users.FindByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.NotEqual(t, res.Password, user.PasswordHash, "plaintext must never be persisted")
	assert.True(t, CheckPassword(user.PasswordHash, res.Password))

	profile, err := profiles.FindByUser(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cv/jane.pdf", profile.ResumeURL)
	assert.Empty(t, profile.Skills, "skills start empty until analysis")
}

func TestProvision_SynthesizesPlaceholders(t *testing.T) {
	p, _, _ := newProvisioner()
	ctx := requestcontext.WithTime(context.Background(), time.Now().UTC())

	res, err := p.Provision(ctx, ProvisionInput{})
	require.NoError(t, err)

	assert.True(t, contact.IsPlaceholderEmail(res.Email))
	assert.True(t, contact.IsPlaceholderPhone(res.Phone))
}

func TestProvision_DuplicateEmailHardStop(t *testing.T) {
	p, users, profiles := newProvisioner()
	ctx := context.Background()

	_, err := p.Provision(ctx, ProvisionInput{Email: "taken@example.com"})
	require.NoError(t, err)

	_, err = p.Provision(ctx, ProvisionInput{Email: "taken@example.com"})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeConflict))
	// The message must not reveal whether application or account data collided.
	assert.Equal(t, "an account with this email already exists, please log in", err.Error())

	assert.Equal(t, 1, users.Len())
	assert.Equal(t, 1, profiles.Len())
}

func TestGeneratePassword_Policy(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(pw), 12)
		assert.True(t, meetsPolicy(pw), "password %q misses a character class", pw)
		assert.False(t, seen[pw], "generator repeated a password")
		seen[pw] = true
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-Pa$$word")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-Pa$$word"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

// Package identity provisions user identities for the anonymous application
// path: duplicate-email guard, placeholder contact synthesis, secure
// credential generation, and the initial profile row.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// duplicateIdentityMessage deliberately does not reveal whether the collision
// came from application or account data.
const duplicateIdentityMessage = "an account with this email already exists, please log in"

// ProvisionInput carries whatever contact info the applicant supplied.
// Absent fields are replaced with tagged placeholders so the analysis
// callback can detect and enrich them later.
type ProvisionInput struct {
	Email     string
	Name      string
	Phone     string
	ResumeURL string
	LinkedIn  string
}

// ProvisionResult returns the created identifiers plus the plaintext
// credential, so the caller can issue one-time credentials to the applicant.
type ProvisionResult struct {
	UserID    domain.UserID
	ProfileID domain.ProfileID
	Email     string
	Phone     string
	Password  string
}

// Provisioner creates identities inside the caller's transaction. It performs
// no transaction management of its own: every write goes through the stores,
// which resolve against the context transaction.
type Provisioner struct {
	users    UserStore
	profiles ProfileStore
	logger   *slog.Logger
}

func NewProvisioner(users UserStore, profiles ProfileStore, logger *slog.Logger) *Provisioner {
	return &Provisioner{users: users, profiles: profiles, logger: logger}
}

// Provision creates a user and profile for an anonymous applicant.
//
// Errors: CodeConflict when the supplied email already belongs to an
// identity (hard stop - prevents account probing and hijacking via
// application submission); CodeInternal on storage failure. The enclosing
// transaction guarantees no partial writes survive either.
func (p *Provisioner) Provision(ctx context.Context, in ProvisionInput) (ProvisionResult, error) {
	now := requestcontext.Now(ctx)

	email := contact.NormalizeEmail(in.Email)
	if email != "" {
		_, err := p.users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return ProvisionResult{}, domerrors.New(domerrors.CodeConflict, duplicateIdentityMessage)
		case !errors.Is(err, sentinel.ErrNotFound):
			return ProvisionResult{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to check existing identity")
		}
	} else {
		email = contact.PlaceholderEmail(now)
	}

	phone := in.Phone
	if phone == "" {
		phone = contact.PlaceholderPhone(now)
	}

	name := in.Name
	if name == "" {
		first, last := contact.DeriveNameFromEmail(email)
		name = first + " " + last
	}

	password, err := GeneratePassword()
	if err != nil {
		return ProvisionResult{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to generate credential")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return ProvisionResult{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to hash credential")
	}

	user := User{
		ID:           domain.NewUserID(),
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return ProvisionResult{}, domerrors.New(domerrors.CodeConflict, duplicateIdentityMessage)
		}
		return ProvisionResult{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to create identity")
	}

	profile := Profile{
		ID:        domain.NewProfileID(),
		UserID:    user.ID,
		ResumeURL: in.ResumeURL,
		LinkedIn:  in.LinkedIn,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.profiles.Create(ctx, profile); err != nil {
		return ProvisionResult{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to create profile")
	}

	p.logger.InfoContext(ctx, "identity provisioned",
		"user_id", user.ID.String(),
		"placeholder_email", contact.IsPlaceholderEmail(email),
	)

	return ProvisionResult{
		UserID:    user.ID,
		ProfileID: profile.ID,
		Email:     email,
		Phone:     phone,
		Password:  password,
	}, nil
}

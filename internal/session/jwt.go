package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/requestcontext"
)

// Claims are the JWT claims for issued session tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// JWTIssuer issues HS256-signed session tokens and records the session.
type JWTIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	store      Store
}

func NewJWTIssuer(signingKey, issuer string, ttl time.Duration, store Store) *JWTIssuer {
	return &JWTIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		store:      store,
	}
}

func (i *JWTIssuer) Issue(ctx context.Context, userID domain.UserID) (Session, error) {
	now := requestcontext.Now(ctx)
	sessionID := domain.NewSessionID()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return Session{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to sign session token")
	}

	s := Session{
		ID:        sessionID,
		UserID:    userID,
		Token:     signed,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}
	if err := i.store.Save(ctx, s); err != nil {
		return Session{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to persist session")
	}
	return s, nil
}

// Validate parses and verifies a token, returning its claims.
func (i *JWTIssuer) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid session token")
	}
	return claims, nil
}

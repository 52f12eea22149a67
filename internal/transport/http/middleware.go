package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"talentgate/internal/session"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*session.Claims, error)
}

// requestScope stamps the request time and correlation ID into the context
// so every layer below derives timestamps and log fields from one place.
func requestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerUser resolves an optional Authorization header into the acting user.
// Missing or invalid tokens leave the request anonymous; handlers that need
// an identity enforce it themselves.
func bearerUser(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && token != "" {
				if claims, err := validator.Validate(token); err == nil {
					if userID, perr := domain.ParseUserID(claims.UserID); perr == nil {
						r = r.WithContext(requestcontext.WithUserID(r.Context(), userID))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

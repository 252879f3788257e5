package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/medovate/clinic-backend/internal/auth"
	"github.com/medovate/clinic-backend/internal/domain"
	"github.com/medovate/clinic-backend/pkg/ctxutil"
)

type accessTokenParser interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

type sessionValidator interface {
	Validate(ctx context.Context, token string, reqCtx *domain.RequestContext) (*domain.Session, error)
}

// Auth validates the bearer access token and the session it is bound to,
// then stores the caller's identity in the request context. Requests without
// a token pass through anonymous; RequireAuth gates the protected routes.
func Auth(parser accessTokenParser, sessions sessionValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			identity, err := parser.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			session, err := sessions.Validate(r.Context(), identity.SessionToken, &domain.RequestContext{
				Endpoint: r.URL.Path,
				Method:   r.Method,
			})
			if err != nil {
				// A blocked session stays blocked; expired and unknown
				// sessions force a fresh login.
				if errors.Is(err, domain.ErrSessionBlocked) {
					http.Error(w, "session blocked", http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), identity.UserID)
			ctx = ctxutil.WithRole(ctx, identity.Role)
			ctx = ctxutil.WithSessionToken(ctx, session.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate through Auth.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blog-api/internal/model"
	"blog-api/pkg/apierror"
)

type tokenVerifier interface {
	Verify(token string) (*model.TokenClaims, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, userID string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	tokens tokenVerifier
	users  identityResolver
}

func NewAuthMiddleware(tokens tokenVerifier, users identityResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate attaches the caller identity when the request carries a
// valid bearer token for an existing user. A missing or invalid token
// leaves the request anonymous; only store failures are answered here.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.users.Resolve(r.Context(), claims.UserID)
		if errors.Is(err, model.ErrUserNotFound) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			slog.Error("resolve token subject", "error", err)
			writeError(w, apierror.New(apierror.CodeInternal, "internal server error", "", http.StatusInternalServerError))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAuth rejects requests that Authenticate left anonymous.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeError(w, apierror.Unauthorized(model.ErrUnauthorized, "token missing or invalid"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, &identity)
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	return identity, ok && identity != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

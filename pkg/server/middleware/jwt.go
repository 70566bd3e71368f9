package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/token"
)

var bearerRegex = regexp.MustCompile(`^[Bb]earer (\S+)$`)

type contextKey string

const (
	userContextKey   contextKey = "user"
	claimsContextKey contextKey = "claims"
)

// UserFromContext returns the authenticated user set by UserAuthenticator.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// ClaimsFromContext returns the token claims set by the authenticators.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*token.Claims)
	return claims, ok
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	matches := bearerRegex.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(matches) != 2 {
		return "", false
	}
	return matches[1], true
}

// UserAuthenticator is middleware that validates user access tokens and
// loads the corresponding user record.
type UserAuthenticator struct {
	issuer *token.Issuer
	kind   provider.Kind
	users  store.UserStore
}

// NewUserAuthenticator creates a new user authenticator middleware
func NewUserAuthenticator(issuer *token.Issuer, kind provider.Kind, users store.UserStore) *UserAuthenticator {
	return &UserAuthenticator{issuer: issuer, kind: kind, users: users}
}

// Middleware returns an HTTP middleware that validates access tokens.
// The authenticated user and claims are placed on the request context.
func (a *UserAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := BearerToken(r)
		if !ok {
			unauthorized(w, "not authenticated")
			return
		}

		claims, err := a.issuer.VerifyAccess(tokenStr)
		if err != nil {
			unauthorized(w, "could not validate credentials")
			return
		}

		user, err := a.users.FindUser(a.kind, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				unauthorized(w, "could not validate credentials")
				return
			}
			respondError(w, http.StatusInternalServerError, "user lookup failed")
			return
		}
		if user.Disabled {
			respondError(w, http.StatusBadRequest, "inactive user")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ServiceAuthenticator is middleware that validates service client tokens.
type ServiceAuthenticator struct {
	issuer *token.Issuer
}

// NewServiceAuthenticator creates a new service authenticator middleware
func NewServiceAuthenticator(issuer *token.Issuer) *ServiceAuthenticator {
	return &ServiceAuthenticator{issuer: issuer}
}

// RequireScope returns an HTTP middleware that validates a service token
// and requires the given scope.
func (a *ServiceAuthenticator) RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "not authenticated")
				return
			}

			claims, err := a.issuer.VerifyAccess(tokenStr)
			if err != nil {
				unauthorized(w, "could not validate credentials")
				return
			}

			if !claims.HasScope(scope) {
				respondError(w, http.StatusForbidden, "insufficient scope: requires "+scope)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respondError(w, http.StatusUnauthorized, message)
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

package endpoints

import (
	"net/http"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/audit"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/middleware"
)

const (
	qqStateKey    = "qq_state"
	qqTokenPrefix = "/oauth/v1/auth/qq"
)

// RegisterQQEndpoints registers the QQ Connect login flow
func RegisterQQEndpoints(s *server.Server) {
	qq := s.Providers[provider.KindQQ]
	sub := s.Router.PathPrefix(qqTokenPrefix).Subrouter()

	sub.HandleFunc("/login", handleLogin(s, qq, qqStateKey)).Methods("GET")
	sub.HandleFunc("/callback", handleQQCallback(s, qq)).Methods("GET")
	sub.HandleFunc("/token/refresh", handleRefresh(s, s.QQIssuer, provider.KindQQ, s.Config.QQAccessTokenTTL())).Methods("POST")

	userAuth := middleware.NewUserAuthenticator(s.QQIssuer, provider.KindQQ, s.UserStore)
	sub.Handle("/users/me", userAuth.Middleware(http.HandlerFunc(handleCurrentUser))).Methods("GET")
}

func handleQQCallback(s *server.Server, p provider.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !consumeState(s, w, r, qqStateKey) {
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			respondWithError(w, http.StatusBadRequest, "code is required")
			return
		}

		// Three upstream round trips happen behind Authenticate. QQ
		// availability problems surface here as a 503.
		identity, err := p.Authenticate(r.Context(), code)
		if err != nil {
			audit.Log(audit.LoginEvent{
				Provider:     p.Kind().String(),
				ClientIP:     clientIP(r),
				ErrorMessage: "upstream authentication failed",
			})
			respondWithError(w, http.StatusServiceUnavailable, "qq authentication failed")
			return
		}

		user, err := s.UserStore.UpsertUser(p.Kind(), identity)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to store user")
			return
		}

		accessToken, err := s.QQIssuer.IssueAccess(user.Subject, s.Config.QQAccessTokenTTL())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		refreshToken, err := s.QQIssuer.IssueRefresh(user.Subject, s.Config.QQRefreshTokenTTL())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.LoginEvent{
			Provider: p.Kind().String(),
			Subject:  user.Subject,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, TokenPairResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "bearer",
		})
	}
}

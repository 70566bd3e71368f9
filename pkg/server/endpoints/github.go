package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/audit"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/crypto"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/middleware"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/token"
)

const (
	sessionName       = "oauth_session"
	githubStateKey    = "github_state"
	githubTokenPrefix = "/oauth/v1/code/to/access"
)

// TokenPairResponse is the body returned after a successful login.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// UserResponse is the public view of a stored user.
type UserResponse struct {
	Provider  string `json:"provider"`
	Subject   string `json:"subject"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Disabled  bool   `json:"disabled"`
}

func userResponse(user *model.User) UserResponse {
	return UserResponse{
		Provider:  user.Provider,
		Subject:   user.Subject,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Disabled:  user.Disabled,
	}
}

// RegisterGithubEndpoints registers the GitHub authorization code flow
func RegisterGithubEndpoints(s *server.Server) {
	github := s.Providers[provider.KindGithub]
	sub := s.Router.PathPrefix(githubTokenPrefix).Subrouter()

	sub.HandleFunc("/", handleGithubIndex()).Methods("GET")
	sub.HandleFunc("", handleGithubIndex()).Methods("GET")
	sub.HandleFunc("/login/github", handleLogin(s, github, githubStateKey)).Methods("GET")
	sub.HandleFunc("/auth/github/callback", handleGithubCallback(s, github)).Methods("GET")
	sub.HandleFunc("/token/refresh", handleRefresh(s, s.Issuer, provider.KindGithub, s.Config.AccessTokenTTL())).Methods("POST")

	userAuth := middleware.NewUserAuthenticator(s.Issuer, provider.KindGithub, s.UserStore)
	sub.Handle("/users/me/", userAuth.Middleware(http.HandlerFunc(handleCurrentUser))).Methods("GET")
	sub.Handle("/users/me/items/", userAuth.Middleware(http.HandlerFunc(handleCurrentUserItems))).Methods("GET")
}

func handleGithubIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"message": "visit /login/github to start the GitHub login flow",
		})
	}
}

// handleLogin starts an authorization code flow. The random state is kept
// in the session cookie and checked once by the callback.
func handleLogin(s *server.Server, p provider.Provider, stateKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := crypto.RandomURLSafe(32)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to generate state")
			return
		}

		session, _ := s.Sessions.Get(r, sessionName)
		session.Values[stateKey] = state
		if err := session.Save(r, w); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to persist session")
			return
		}

		http.Redirect(w, r, p.AuthorizationURL(state), http.StatusFound)
	}
}

// consumeState verifies the callback state against the session and removes
// it so it cannot be replayed.
func consumeState(s *server.Server, w http.ResponseWriter, r *http.Request, stateKey string) bool {
	state := r.URL.Query().Get("state")
	session, _ := s.Sessions.Get(r, sessionName)
	saved, ok := session.Values[stateKey].(string)
	delete(session.Values, stateKey)
	_ = session.Save(r, w)

	if !ok || state == "" || state != saved {
		respondWithError(w, http.StatusForbidden, "state mismatch")
		return false
	}
	return true
}

func handleGithubCallback(s *server.Server, p provider.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !consumeState(s, w, r, githubStateKey) {
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			respondWithError(w, http.StatusBadRequest, "code is required")
			return
		}

		identity, err := p.Authenticate(r.Context(), code)
		if err != nil {
			audit.Log(audit.LoginEvent{
				Provider:     p.Kind().String(),
				ClientIP:     clientIP(r),
				ErrorMessage: "upstream authentication failed",
			})
			respondWithError(w, http.StatusBadGateway, "github authentication failed")
			return
		}

		user, err := s.UserStore.UpsertUser(p.Kind(), identity)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to store user")
			return
		}

		accessToken, err := s.Issuer.IssueAccess(user.Subject, s.Config.AccessTokenTTL())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		refreshToken, err := s.Issuer.IssueRefresh(user.Subject, s.Config.RefreshTokenTTL())
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

// handleRefresh exchanges a refresh token for a new access token. Refresh
// tokens are not rotated.
func handleRefresh(s *server.Server, issuer *token.Issuer, kind provider.Kind, accessTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		refreshToken := r.PostFormValue("refresh_token")
		if refreshToken == "" {
			respondWithError(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		refreshDenied := func(subject, message string) {
			audit.Log(audit.TokenRefreshEvent{
				Provider:     kind.String(),
				Subject:      subject,
				ClientIP:     clientIP(r),
				ErrorMessage: message,
			})
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondWithError(w, http.StatusUnauthorized, message)
		}

		claims, err := issuer.VerifyRefresh(refreshToken)
		if err != nil {
			refreshDenied("", "invalid refresh token")
			return
		}

		user, err := s.UserStore.FindUser(kind, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				refreshDenied(claims.Subject, "unknown user")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "user lookup failed")
			return
		}
		if user.Disabled {
			refreshDenied(claims.Subject, "inactive user")
			return
		}

		accessToken, err := issuer.IssueAccess(user.Subject, accessTTL)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.TokenRefreshEvent{
			Provider: kind.String(),
			Subject:  user.Subject,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, TokenPairResponse{
			AccessToken: accessToken,
			TokenType:   "bearer",
		})
	}
}

func handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondWithJSON(w, http.StatusOK, userResponse(user))
}

func handleCurrentUserItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondWithJSON(w, http.StatusOK, []map[string]string{
		{"item_id": "Foo", "owner": user.Username},
	})
}

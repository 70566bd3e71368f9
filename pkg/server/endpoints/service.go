package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/audit"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/middleware"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

const (
	servicePrefix = "/oauth/v1/service/to/access"

	// ScopeReadServiceData guards the service data endpoint.
	ScopeReadServiceData = "read:service_data"
)

// ServiceTokenResponse is the body returned from the client credentials
// token endpoint.
type ServiceTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// RegisterServiceEndpoints registers the client credentials flow
func RegisterServiceEndpoints(s *server.Server) {
	sub := s.Router.PathPrefix(servicePrefix).Subrouter()

	sub.HandleFunc("/token", handleServiceToken(s)).Methods("POST")

	serviceAuth := middleware.NewServiceAuthenticator(s.Issuer)
	sub.Handle("/data", serviceAuth.RequireScope(ScopeReadServiceData)(http.HandlerFunc(handleServiceData))).Methods("GET")
}

func handleServiceToken(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		clientID := r.PostFormValue("client_id")
		clientSecret := r.PostFormValue("client_secret")
		if clientID == "" || clientSecret == "" {
			respondWithError(w, http.StatusBadRequest, "client_id and client_secret are required")
			return
		}

		denied := func(message string) {
			audit.Log(audit.ServiceTokenEvent{
				ClientID:     clientID,
				ClientIP:     clientIP(r),
				ErrorMessage: message,
			})
			w.Header().Set("WWW-Authenticate", `Basic realm="service"`)
			respondWithError(w, http.StatusUnauthorized, "invalid client credentials")
		}

		client, err := s.ClientStore.GetClient(clientID)
		if err != nil {
			if errors.Is(err, store.ErrClientNotFound) {
				denied("unknown client")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "client lookup failed")
			return
		}

		if !s.ClientStore.ValidateSecret(client, clientSecret) {
			denied("secret mismatch")
			return
		}

		scopes := client.ScopeList()
		accessToken, err := s.Issuer.IssueService(client.ClientID, scopes, s.Config.ServiceTokenTTL())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.ServiceTokenEvent{
			ClientID: clientID,
			ClientIP: clientIP(r),
			Scopes:   scopes,
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, ServiceTokenResponse{
			AccessToken: accessToken,
			TokenType:   "bearer",
			Scope:       strings.Join(scopes, " "),
		})
	}
}

func handleServiceData(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"client_id": claims.Subject,
		"data":      []string{"alpha", "beta", "gamma"},
	})
}

package endpoints

import (
	"net/http"
	"os"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server/store"
)

// HealthResponse reports service and database health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the landing page and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleIndex()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("OAUTH_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		html := `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>OAuth API</title>
  </head>
  <body>
    <main>
      <h1>OAuth API</h1>
      <p>Your OAuth server is running. Version ` + version + `</p>

      <h2>Login options:</h2>
      <ul>
        <li><a href="/oauth/v1/code/to/access/login/github">Login with GitHub</a></li>
        <li><a href="/oauth/v1/auth/qq/login">Login with QQ</a></li>
      </ul>

      <p>Service clients obtain tokens at
        <code>POST /oauth/v1/service/to/access/token</code>.</p>
    </main>
  </body>
</html>
`

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: "unreachable",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Database: "ok",
		})
	}
}

package endpoints

import (
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterGithubEndpoints(srv)
	RegisterQQEndpoints(srv)
	RegisterServiceEndpoints(srv)
	RegisterStatusEndpoints(srv)
}

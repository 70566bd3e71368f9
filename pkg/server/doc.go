// Package server provides the HTTP server for the OAuth API.
//
// This package implements the core HTTP server that handles all OAuth API
// requests. It uses gorilla/mux for routing and provides middleware for
// token validation and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, stores, providers, host, port)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: OAuth provider credentials and token lifetimes
//   - Router: HTTP request router
//   - DB: Database connection
//   - UserStore, ClientStore, HealthStore: storage interfaces
//   - Issuer, QQIssuer: internal JWT issuers
//   - Providers: upstream OAuth providers keyed by kind
//   - Sessions: cookie session store for authorization state
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers all routes under the /oauth/v1 prefixes:
//
//   - /oauth/v1/code/to/access - GitHub authorization code flow
//   - /oauth/v1/auth/qq - QQ Connect flow
//   - /oauth/v1/service/to/access - service client credentials flow
package server

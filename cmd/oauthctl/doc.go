// Package main provides oauthctl, the CLI for the OAuth API server.
//
// The server bridges upstream identity providers (GitHub, QQ Connect) and
// internal JWT-based access, plus a client-credentials flow for services.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/provider: upstream OAuth providers (GitHub, QQ)
//   - pkg/token: internal JWT issuing and verification
//   - pkg/crypto: symmetric encryption for stored client secrets
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
// The server is run via the oauthctl CLI:
//
//	# Generate a data key for client secret encryption
//	oauthctl data-key generate > data_key
//	export OAUTH_DATA_KEY=$(cat data_key)
//
//	# Run database migrations
//	oauthctl db migrate
//
//	# Register a service client
//	oauthctl client create my-service
//
//	# Start the server
//	oauthctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - OAUTH_DATA_KEY: Base64-encoded 256-bit key for client secret encryption
//   - SECRET_KEY: signing secret for internal JWTs
//   - SESSION_SECRET_KEY: session cookie authentication key
//   - GITHUB_CLIENT_ID / GITHUB_CLIENT_SECRET / GITHUB_REDIRECT_URI
//   - QQ_APP_ID / QQ_APP_KEY / QQ_REDIRECT_URI
//   - OAUTH_LOG_LEVEL: log level (debug, info)
//   - PORT: server port (default: 8000)
package main

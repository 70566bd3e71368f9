// Package config provides configuration management for the OAuth gateway.
//
// Configuration is loaded from an optional YAML file (oauth.yml) and
// overridden by environment variables, tracking the source of each value.
//
// # Key Configuration Options
//
//   - SECRET_KEY: HS256 key for internal user and service JWTs
//   - SESSION_SECRET_KEY: key authenticating the OAuth state cookie
//   - GITHUB_CLIENT_ID / GITHUB_CLIENT_SECRET / GITHUB_REDIRECT_URI
//   - QQ_APP_ID / QQ_APP_KEY / QQ_REDIRECT_URI / QQ_JWT_SECRET_KEY
//   - DATABASE_URL: database connection (read by pkg/db)
//   - PORT: server listen port (read by the server command)
package config

// Package provider implements the upstream identity providers the gateway
// can log users in through.
//
// A Provider builds the authorization redirect URL and turns a callback
// authorization code into a verified upstream identity. GitHub follows the
// standard authorization-code flow and is built on golang.org/x/oauth2;
// QQ Connect deviates from standard OAuth 2.0 in its response encodings and is
// implemented by hand.
package provider

import (
	"context"
)

// Identity is the normalized result of an upstream login.
type Identity struct {
	// Subject is the provider's stable identifier for the user: the numeric
	// GitHub ID as a decimal string, or the QQ openid.
	Subject   string
	Username  string
	Name      string
	Email     string
	AvatarURL string
}

// Provider is an upstream identity provider.
type Provider interface {
	// Kind identifies the provider.
	Kind() Kind

	// AuthorizationURL returns the URL to redirect the user agent to,
	// carrying the anti-CSRF state parameter.
	AuthorizationURL(state string) string

	// Authenticate exchanges a callback authorization code for the
	// upstream identity.
	Authenticate(ctx context.Context, code string) (*Identity, error)
}

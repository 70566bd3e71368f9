package endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/server"
)

// fakeProvider is a canned upstream provider for handler tests.
type fakeProvider struct {
	kind     provider.Kind
	identity *provider.Identity
	err      error
}

func (f *fakeProvider) Kind() provider.Kind {
	return f.kind
}

func (f *fakeProvider) AuthorizationURL(state string) string {
	return "https://upstream.example.com/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Authenticate(ctx context.Context, code string) (*provider.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

var errUpstream = errors.New("upstream says no")

type testEnv struct {
	server  *server.Server
	users   *MockUserStore
	clients *MockClientStore
	health  *MockHealthStore
	github  *fakeProvider
	qq      *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.OauthConfig{
		SecretKey:               "test-secret-key",
		SessionSecretKey:        "test-session-secret",
		AccessTokenTTLMinutes:   15,
		RefreshTokenTTLMinutes:  60 * 24 * 7,
		ServiceTokenTTLMinutes:  15,
		QQSecretKey:             "test-qq-secret",
		QQAccessTokenTTLMinutes: 30,
		QQRefreshTokenTTLDays:   7,
		AllowedOrigins:          []string{"*"},
	}

	users := NewMockUserStore()
	clients := NewMockClientStore()
	health := NewMockHealthStore()
	github := &fakeProvider{kind: provider.KindGithub}
	qq := &fakeProvider{kind: provider.KindQQ}

	srv := server.NewServer(
		cfg,
		nil,
		server.Stores{Users: users, Clients: clients, Health: health},
		map[provider.Kind]provider.Provider{
			provider.KindGithub: github,
			provider.KindQQ:     qq,
		},
		"localhost",
		"0",
	)
	RegisterAll(srv)

	return &testEnv{
		server:  srv,
		users:   users,
		clients: clients,
		health:  health,
		github:  github,
		qq:      qq,
	}
}

// startLogin drives the login redirect and returns the state parameter and
// the session cookies needed for the callback request.
func (e *testEnv) startLogin(t *testing.T, loginPath string) (string, []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest("GET", loginPath, nil)
	rec := httptest.NewRecorder()
	e.server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return state, rec.Result().Cookies()
}

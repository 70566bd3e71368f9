package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
)

func qqTestConfig() *config.OauthConfig {
	return &config.OauthConfig{
		QQAppID:       "qq-app",
		QQAppKey:      "qq-key",
		QQRedirectURI: "http://localhost:8000/oauth/v1/auth/qq/callback",
	}
}

func TestQQAuthorizationURL(t *testing.T) {
	q := NewQQ(qqTestConfig())

	rawURL := q.AuthorizationURL("qq-state")
	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	assert.Equal(t, "graph.qq.com", u.Host)
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "qq-app", u.Query().Get("client_id"))
	assert.Equal(t, "qq-state", u.Query().Get("state"))
	assert.Equal(t, "get_user_info", u.Query().Get("scope"))
}

func TestParseQQTokenResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantToken   string
		wantErr     bool
	}{
		{
			name:        "json response",
			body:        `{"access_token":"FE12","expires_in":7776000,"refresh_token":"88AB"}`,
			contentType: "application/json",
			wantToken:   "FE12",
		},
		{
			name:        "json error response",
			body:        `{"error":100019,"error_description":"code to access token error"}`,
			contentType: "application/json",
			wantErr:     true,
		},
		{
			name:        "form-encoded text response",
			body:        "access_token=FE12&expires_in=7776000&refresh_token=88AB",
			contentType: "text/html",
			wantToken:   "FE12",
		},
		{
			name:        "unparseable response",
			body:        "server on fire",
			contentType: "text/plain",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := parseQQTokenResponse([]byte(tt.body), tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, values["access_token"])
		})
	}
}

func newQQUpstream(t *testing.T, userInfoBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2.0/token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":100019,"error_description":"bad code"}`))
			return
		}
		// QQ historically answers form-encoded text regardless of fmt=json
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("access_token=qq-token&expires_in=7776000&refresh_token=qq-refresh"))
	})
	mux.HandleFunc("/oauth2.0/me", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "qq-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`callback( {"client_id":"qq-app","openid":"OPENID123"} );`))
	})
	mux.HandleFunc("/user/get_user_info", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("openid") != "OPENID123" || r.URL.Query().Get("oauth_consumer_key") != "qq-app" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userInfoBody))
	})
	return httptest.NewServer(mux)
}

func qqProviderFor(upstream *httptest.Server) *QQ {
	return NewQQ(qqTestConfig(), WithQQEndpoints(
		upstream.URL+"/oauth2.0/authorize",
		upstream.URL+"/oauth2.0/token",
		upstream.URL+"/oauth2.0/me",
		upstream.URL+"/user/get_user_info",
	))
}

func TestQQAuthenticate(t *testing.T) {
	upstream := newQQUpstream(t, `{"ret":0,"msg":"","nickname":"小明","figureurl_qq_1":"https://example.com/40.png","figureurl_qq_2":"https://example.com/100.png"}`)
	defer upstream.Close()

	q := qqProviderFor(upstream)

	t.Run("successful login", func(t *testing.T) {
		identity, err := q.Authenticate(context.Background(), "good-code")
		require.NoError(t, err)

		assert.Equal(t, "OPENID123", identity.Subject)
		assert.Equal(t, "小明", identity.Username)
		// prefers the 100x100 avatar
		assert.Equal(t, "https://example.com/100.png", identity.AvatarURL)
	})

	t.Run("bad code", func(t *testing.T) {
		_, err := q.Authenticate(context.Background(), "bad-code")
		assert.Error(t, err)
	})
}

func TestQQAuthenticateFallsBackToSmallAvatar(t *testing.T) {
	upstream := newQQUpstream(t, `{"ret":0,"msg":"","nickname":"小明","figureurl_qq_1":"https://example.com/40.png"}`)
	defer upstream.Close()

	identity, err := qqProviderFor(upstream).Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/40.png", identity.AvatarURL)
}

func TestQQAuthenticateUserInfoFailure(t *testing.T) {
	upstream := newQQUpstream(t, `{"ret":-1,"msg":"client request's parameters are invalid"}`)
	defer upstream.Close()

	_, err := qqProviderFor(upstream).Authenticate(context.Background(), "good-code")
	assert.ErrorContains(t, err, "ret=-1")
}

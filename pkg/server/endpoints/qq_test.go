package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/model"
	"github.com/VincentAdamNemessisX/oauth-api/pkg/provider"
)

func TestQQCallback_IssuesTokenPair(t *testing.T) {
	env := newTestEnv(t)
	env.qq.identity = &provider.Identity{Subject: "OPENID123", Username: "小明", AvatarURL: "https://qzapp.qlogo.cn/100"}
	env.users.On("UpsertUser", provider.KindQQ, env.qq.identity).
		Return(&model.User{ID: 2, Provider: "qq", Subject: "OPENID123", Username: "小明"}, nil)

	state, cookies := env.startLogin(t, "/oauth/v1/auth/qq/login")
	rec := doCallback(env, "/oauth/v1/auth/qq/callback", state, cookies)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.NotEmpty(t, body.RefreshToken)

	// QQ tokens are signed with the QQ secret, not the general one.
	_, err := env.server.QQIssuer.VerifyAccess(body.AccessToken)
	assert.NoError(t, err)
	_, err = env.server.Issuer.VerifyAccess(body.AccessToken)
	assert.Error(t, err)
}

func TestQQCallback_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.qq.err = errUpstream

	state, cookies := env.startLogin(t, "/oauth/v1/auth/qq/login")
	rec := doCallback(env, "/oauth/v1/auth/qq/callback", state, cookies)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQQCallback_StateMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.startLogin(t, "/oauth/v1/auth/qq/login")
	rec := doCallback(env, "/oauth/v1/auth/qq/callback", "forged-state", cookies)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQQStateIsSeparateFromGithub(t *testing.T) {
	env := newTestEnv(t)

	// A GitHub state must not satisfy the QQ callback.
	state, cookies := env.startLogin(t, "/oauth/v1/code/to/access/login/github")
	rec := doCallback(env, "/oauth/v1/auth/qq/callback", state, cookies)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQQRefresh_UsesQQSecret(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("FindUser", provider.KindQQ, "OPENID123").
		Return(&model.User{ID: 2, Provider: "qq", Subject: "OPENID123"}, nil)

	refreshToken, err := env.server.QQIssuer.IssueRefresh("OPENID123", time.Hour)
	require.NoError(t, err)

	rec := postRefresh(env, "/oauth/v1/auth/qq/token/refresh", refreshToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, err = env.server.QQIssuer.VerifyAccess(body.AccessToken)
	assert.NoError(t, err)
}

func TestQQRefresh_RejectsGithubRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	refreshToken, err := env.server.Issuer.IssueRefresh("OPENID123", time.Hour)
	require.NoError(t, err)

	rec := postRefresh(env, "/oauth/v1/auth/qq/token/refresh", refreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQQUsersMe(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("FindUser", provider.KindQQ, "OPENID123").
		Return(&model.User{ID: 2, Provider: "qq", Subject: "OPENID123", Username: "小明"}, nil)

	accessToken, err := env.server.QQIssuer.IssueAccess("OPENID123", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/oauth/v1/auth/qq/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "qq", me.Provider)
	assert.Equal(t, "小明", me.Username)
}

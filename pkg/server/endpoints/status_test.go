package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/oauth/v1/code/to/access/login/github")
	assert.Contains(t, rec.Body.String(), "/oauth/v1/auth/qq/login")
}

func TestHealth_OK(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(errors.New("connection refused"))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","database":"unreachable"}`, rec.Body.String())
}

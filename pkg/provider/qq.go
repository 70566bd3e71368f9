package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
)

const qqRequestTimeout = 10 * time.Second

// jsonpRegex extracts the JSON body from QQ's `callback( {...} );` wrapper.
var jsonpRegex = regexp.MustCompile(`callback\(\s*({.*?})\s*\);?`)

// QQ authenticates users against QQ Connect.
//
// QQ Connect predates widespread OAuth 2.0 compliance: the token endpoint
// may answer JSON or x-www-form-urlencoded text, and the openid endpoint
// answers JSONP. The identity is resolved in three round trips:
// code -> access token, token -> openid, token+openid -> user info.
type QQ struct {
	appID       string
	appKey      string
	redirectURI string

	authorizeURL string
	tokenURL     string
	openIDURL    string
	userInfoURL  string

	httpClient *http.Client
}

// QQOption configures a QQ provider.
type QQOption func(*QQ)

// WithQQEndpoints overrides the upstream URLs. Used in tests.
func WithQQEndpoints(authorizeURL, tokenURL, openIDURL, userInfoURL string) QQOption {
	return func(q *QQ) {
		q.authorizeURL = authorizeURL
		q.tokenURL = tokenURL
		q.openIDURL = openIDURL
		q.userInfoURL = userInfoURL
	}
}

// WithQQHTTPClient sets a custom HTTP client. Used in tests.
func WithQQHTTPClient(client *http.Client) QQOption {
	return func(q *QQ) {
		q.httpClient = client
	}
}

// NewQQ creates a QQ provider from the gateway configuration.
func NewQQ(cfg *config.OauthConfig, opts ...QQOption) *QQ {
	q := &QQ{
		appID:        cfg.QQAppID,
		appKey:       cfg.QQAppKey,
		redirectURI:  cfg.QQRedirectURI,
		authorizeURL: config.QQAuthorizeURL,
		tokenURL:     config.QQAccessTokenURL,
		openIDURL:    config.QQOpenIDURL,
		userInfoURL:  config.QQUserInfoURL,
		httpClient:   &http.Client{Timeout: qqRequestTimeout},
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Kind identifies the provider.
func (q *QQ) Kind() Kind {
	return KindQQ
}

// AuthorizationURL returns the QQ authorize URL for the given state.
func (q *QQ) AuthorizationURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {q.appID},
		"redirect_uri":  {q.redirectURI},
		"state":         {state},
		"scope":         {config.QQScope},
	}
	return q.authorizeURL + "?" + params.Encode()
}

// qqUserInfo is the get_user_info response. ret is 0 on success.
type qqUserInfo struct {
	Ret          int    `json:"ret"`
	Msg          string `json:"msg"`
	Nickname     string `json:"nickname"`
	FigureURLQQ1 string `json:"figureurl_qq_1"`
	FigureURLQQ2 string `json:"figureurl_qq_2"`
	Gender       string `json:"gender"`
}

// Authenticate resolves a callback code to a QQ identity.
func (q *QQ) Authenticate(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	accessToken, err := q.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	openid, err := q.fetchOpenID(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	info, err := q.fetchUserInfo(ctx, accessToken, openid)
	if err != nil {
		return nil, err
	}

	avatar := info.FigureURLQQ2
	if avatar == "" {
		avatar = info.FigureURLQQ1
	}

	return &Identity{
		Subject:   openid,
		Username:  info.Nickname,
		Name:      info.Nickname,
		AvatarURL: avatar,
	}, nil
}

// exchangeCode trades the authorization code for a QQ access token.
func (q *QQ) exchangeCode(ctx context.Context, code string) (string, error) {
	params := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {q.appID},
		"client_secret": {q.appKey},
		"code":          {code},
		"redirect_uri":  {q.redirectURI},
		// Ask for JSON; QQ may still answer form-encoded text
		"fmt": {"json"},
	}

	body, contentType, err := q.get(ctx, q.tokenURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to request QQ access token: %w", err)
	}

	values, err := parseQQTokenResponse(body, contentType)
	if err != nil {
		return "", err
	}

	accessToken := values["access_token"]
	if accessToken == "" {
		return "", errors.New("QQ token response is missing access_token")
	}
	return accessToken, nil
}

// parseQQTokenResponse handles both the JSON and form-encoded shapes of the
// QQ token endpoint response.
func parseQQTokenResponse(body []byte, contentType string) (map[string]string, error) {
	contentType = strings.ToLower(contentType)

	if strings.Contains(contentType, "application/json") {
		var data map[string]interface{}
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("failed to parse QQ token response: %w", err)
		}
		if _, ok := data["error"]; ok {
			return nil, fmt.Errorf("QQ token endpoint returned error: %v", data["error_description"])
		}
		values := make(map[string]string, len(data))
		for k, v := range data {
			values[k] = fmt.Sprintf("%v", v)
		}
		return values, nil
	}

	// Form-encoded text: access_token=...&expires_in=...&refresh_token=...
	values := make(map[string]string)
	for _, param := range strings.Split(string(body), "&") {
		if k, v, ok := strings.Cut(param, "="); ok {
			values[k] = v
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unexpected QQ token response: %q", string(body))
	}
	return values, nil
}

// fetchOpenID resolves the user's openid from the access token.
func (q *QQ) fetchOpenID(ctx context.Context, accessToken string) (string, error) {
	params := url.Values{
		"access_token": {accessToken},
		"fmt":          {"json"},
	}

	body, _, err := q.get(ctx, q.openIDURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to request QQ openid: %w", err)
	}

	// Expected shape: callback( {"client_id":"...","openid":"..."} );
	payload := body
	if match := jsonpRegex.FindSubmatch(body); match != nil {
		payload = match[1]
	}

	var data struct {
		OpenID string `json:"openid"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return "", fmt.Errorf("failed to parse QQ openid response: %w", err)
	}
	if data.OpenID == "" {
		return "", errors.New("QQ openid response is missing openid")
	}
	return data.OpenID, nil
}

// fetchUserInfo fetches the user profile for an openid.
func (q *QQ) fetchUserInfo(ctx context.Context, accessToken, openid string) (*qqUserInfo, error) {
	params := url.Values{
		"access_token":       {accessToken},
		"oauth_consumer_key": {q.appID},
		"openid":             {openid},
	}

	body, _, err := q.get(ctx, q.userInfoURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to request QQ user info: %w", err)
	}

	var info qqUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse QQ user info: %w", err)
	}
	if info.Ret != 0 {
		return nil, fmt.Errorf("QQ user info request failed: ret=%d msg=%s", info.Ret, info.Msg)
	}
	return &info, nil
}

func (q *QQ) get(ctx context.Context, rawURL string, params url.Values) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

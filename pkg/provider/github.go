package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/VincentAdamNemessisX/oauth-api/pkg/config"
)

const githubRequestTimeout = 10 * time.Second

// Github authenticates users against a GitHub OAuth App.
type Github struct {
	oauth      oauth2.Config
	userAPIURL string
	httpClient *http.Client
}

// GithubOption configures a Github provider.
type GithubOption func(*Github)

// WithGithubEndpoints overrides the upstream URLs. Used in tests.
func WithGithubEndpoints(authURL, tokenURL, userAPIURL string) GithubOption {
	return func(g *Github) {
		g.oauth.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
		g.userAPIURL = userAPIURL
	}
}

// WithGithubHTTPClient sets a custom HTTP client. Used in tests.
func WithGithubHTTPClient(client *http.Client) GithubOption {
	return func(g *Github) {
		g.httpClient = client
	}
}

// NewGithub creates a GitHub provider from the gateway configuration.
func NewGithub(cfg *config.OauthConfig, opts ...GithubOption) *Github {
	g := &Github{
		oauth: oauth2.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  cfg.GithubRedirectURI,
			Scopes:       []string{config.GithubScopes},
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.GithubAuthorizeURL,
				TokenURL: config.GithubAccessTokenURL,
			},
		},
		userAPIURL: config.GithubUserAPIURL,
		httpClient: &http.Client{Timeout: githubRequestTimeout},
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Kind identifies the provider.
func (g *Github) Kind() Kind {
	return KindGithub
}

// AuthorizationURL returns the GitHub authorize URL for the given state.
func (g *Github) AuthorizationURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// githubUser is the subset of the GitHub user API response the gateway uses.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Authenticate exchanges the code for a GitHub token and fetches the user.
func (g *Github) Authenticate(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code with GitHub: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("GitHub returned an empty access token")
	}

	user, err := g.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, errors.New("GitHub user data is missing an id")
	}

	return &Identity{
		Subject:   strconv.FormatInt(user.ID, 10),
		Username:  user.Login,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}, nil
}

func (g *Github) fetchUser(ctx context.Context, accessToken string) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub user API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GitHub user response: %w", err)
	}

	var user githubUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse GitHub user response: %w", err)
	}
	return &user, nil
}

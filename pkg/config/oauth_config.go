package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/oauth-api/config"
	ConfigFileName    = "oauth.yml"
)

// Upstream provider endpoints. These are fixed by the providers and are not
// configurable.
const (
	GithubAuthorizeURL   = "https://github.com/login/oauth/authorize"
	GithubAccessTokenURL = "https://github.com/login/oauth/access_token"
	GithubUserAPIURL     = "https://api.github.com/user"
	GithubScopes         = "read:user user:email"

	QQAuthorizeURL   = "https://graph.qq.com/oauth2.0/authorize"
	QQAccessTokenURL = "https://graph.qq.com/oauth2.0/token"
	QQOpenIDURL      = "https://graph.qq.com/oauth2.0/me"
	QQUserInfoURL    = "https://graph.qq.com/user/get_user_info"
	QQScope          = "get_user_info"
)

// OauthConfig holds all gateway configuration settings.
type OauthConfig struct {
	// SecretKey signs internal user and service JWTs (HS256)
	SecretKey string `yaml:"secret_key" json:"-"`

	// SessionSecretKey authenticates the session cookie holding OAuth state
	SessionSecretKey string `yaml:"session_secret_key" json:"-"`

	// AccessTokenTTLMinutes is the user access token TTL in minutes
	AccessTokenTTLMinutes int `yaml:"access_token_ttl_minutes" json:"access_token_ttl_minutes"`

	// RefreshTokenTTLMinutes is the user refresh token TTL in minutes
	RefreshTokenTTLMinutes int `yaml:"refresh_token_ttl_minutes" json:"refresh_token_ttl_minutes"`

	// ServiceTokenTTLMinutes is the service access token TTL in minutes
	ServiceTokenTTLMinutes int `yaml:"service_token_ttl_minutes" json:"service_token_ttl_minutes"`

	// GithubClientID and GithubClientSecret identify the GitHub OAuth App
	GithubClientID     string `yaml:"github_client_id" json:"github_client_id"`
	GithubClientSecret string `yaml:"github_client_secret" json:"-"`

	// GithubRedirectURI is the callback URL registered with GitHub
	GithubRedirectURI string `yaml:"github_redirect_uri" json:"github_redirect_uri"`

	// QQAppID and QQAppKey identify the QQ Connect application
	QQAppID  string `yaml:"qq_app_id" json:"qq_app_id"`
	QQAppKey string `yaml:"qq_app_key" json:"-"`

	// QQRedirectURI is the callback URL registered with QQ Connect
	QQRedirectURI string `yaml:"qq_redirect_uri" json:"qq_redirect_uri"`

	// QQSecretKey signs internal JWTs for QQ users; defaults to SecretKey
	QQSecretKey string `yaml:"qq_secret_key" json:"-"`

	// QQAccessTokenTTLMinutes is the QQ user access token TTL in minutes
	QQAccessTokenTTLMinutes int `yaml:"qq_access_token_ttl_minutes" json:"qq_access_token_ttl_minutes"`

	// QQRefreshTokenTTLDays is the QQ user refresh token TTL in days
	QQRefreshTokenTTLDays int `yaml:"qq_refresh_token_ttl_days" json:"qq_refresh_token_ttl_days"`

	// AllowedOrigins is the CORS allowlist
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *OauthConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *OauthConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values.
func newDefault() *OauthConfig {
	return &OauthConfig{
		AccessTokenTTLMinutes:   15,
		RefreshTokenTTLMinutes:  60 * 24 * 7,
		ServiceTokenTTLMinutes:  15,
		GithubRedirectURI:       "http://localhost:8000/oauth/v1/code/to/access/auth/github/callback",
		QQRedirectURI:           "http://localhost:8000/oauth/v1/auth/qq/callback",
		QQAccessTokenTTLMinutes: 30,
		QQRefreshTokenTTLDays:   7,
		AllowedOrigins:          []string{"*"},
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*OauthConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("OAUTH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig OauthConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"secret_key", "session_secret_key",
		"access_token_ttl_minutes", "refresh_token_ttl_minutes",
		"service_token_ttl_minutes",
		"github_client_id", "github_client_secret", "github_redirect_uri",
		"qq_app_id", "qq_app_key", "qq_redirect_uri", "qq_secret_key",
		"qq_access_token_ttl_minutes", "qq_refresh_token_ttl_days",
		"allowed_origins",
	}
}

func (c *OauthConfig) applyFileConfig(file *OauthConfig) {
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
		c.sources["secret_key"] = "file"
	}
	if file.SessionSecretKey != "" {
		c.SessionSecretKey = file.SessionSecretKey
		c.sources["session_secret_key"] = "file"
	}
	if file.AccessTokenTTLMinutes != 0 {
		c.AccessTokenTTLMinutes = file.AccessTokenTTLMinutes
		c.sources["access_token_ttl_minutes"] = "file"
	}
	if file.RefreshTokenTTLMinutes != 0 {
		c.RefreshTokenTTLMinutes = file.RefreshTokenTTLMinutes
		c.sources["refresh_token_ttl_minutes"] = "file"
	}
	if file.ServiceTokenTTLMinutes != 0 {
		c.ServiceTokenTTLMinutes = file.ServiceTokenTTLMinutes
		c.sources["service_token_ttl_minutes"] = "file"
	}
	if file.GithubClientID != "" {
		c.GithubClientID = file.GithubClientID
		c.sources["github_client_id"] = "file"
	}
	if file.GithubClientSecret != "" {
		c.GithubClientSecret = file.GithubClientSecret
		c.sources["github_client_secret"] = "file"
	}
	if file.GithubRedirectURI != "" {
		c.GithubRedirectURI = file.GithubRedirectURI
		c.sources["github_redirect_uri"] = "file"
	}
	if file.QQAppID != "" {
		c.QQAppID = file.QQAppID
		c.sources["qq_app_id"] = "file"
	}
	if file.QQAppKey != "" {
		c.QQAppKey = file.QQAppKey
		c.sources["qq_app_key"] = "file"
	}
	if file.QQRedirectURI != "" {
		c.QQRedirectURI = file.QQRedirectURI
		c.sources["qq_redirect_uri"] = "file"
	}
	if file.QQSecretKey != "" {
		c.QQSecretKey = file.QQSecretKey
		c.sources["qq_secret_key"] = "file"
	}
	if file.QQAccessTokenTTLMinutes != 0 {
		c.QQAccessTokenTTLMinutes = file.QQAccessTokenTTLMinutes
		c.sources["qq_access_token_ttl_minutes"] = "file"
	}
	if file.QQRefreshTokenTTLDays != 0 {
		c.QQRefreshTokenTTLDays = file.QQRefreshTokenTTLDays
		c.sources["qq_refresh_token_ttl_days"] = "file"
	}
	if len(file.AllowedOrigins) > 0 {
		c.AllowedOrigins = file.AllowedOrigins
		c.sources["allowed_origins"] = "file"
	}
}

func (c *OauthConfig) applyEnvConfig() {
	if val := os.Getenv("SECRET_KEY"); val != "" {
		c.SecretKey = val
		c.sources["secret_key"] = "environment"
	}
	if val := os.Getenv("SESSION_SECRET_KEY"); val != "" {
		c.SessionSecretKey = val
		c.sources["session_secret_key"] = "environment"
	}
	if val := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenTTLMinutes = i
			c.sources["access_token_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("REFRESH_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RefreshTokenTTLMinutes = i
			c.sources["refresh_token_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("SERVICE_ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ServiceTokenTTLMinutes = i
			c.sources["service_token_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("GITHUB_CLIENT_ID"); val != "" {
		c.GithubClientID = val
		c.sources["github_client_id"] = "environment"
	}
	if val := os.Getenv("GITHUB_CLIENT_SECRET"); val != "" {
		c.GithubClientSecret = val
		c.sources["github_client_secret"] = "environment"
	}
	if val := os.Getenv("GITHUB_REDIRECT_URI"); val != "" {
		c.GithubRedirectURI = val
		c.sources["github_redirect_uri"] = "environment"
	}
	if val := os.Getenv("QQ_APP_ID"); val != "" {
		c.QQAppID = val
		c.sources["qq_app_id"] = "environment"
	}
	if val := os.Getenv("QQ_APP_KEY"); val != "" {
		c.QQAppKey = val
		c.sources["qq_app_key"] = "environment"
	}
	if val := os.Getenv("QQ_REDIRECT_URI"); val != "" {
		c.QQRedirectURI = val
		c.sources["qq_redirect_uri"] = "environment"
	}
	if val := os.Getenv("QQ_JWT_SECRET_KEY"); val != "" {
		c.QQSecretKey = val
		c.sources["qq_secret_key"] = "environment"
	}
	if val := os.Getenv("QQ_ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.QQAccessTokenTTLMinutes = i
			c.sources["qq_access_token_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("QQ_REFRESH_TOKEN_EXPIRE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.QQRefreshTokenTTLDays = i
			c.sources["qq_refresh_token_ttl_days"] = "environment"
		}
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		c.AllowedOrigins = splitAndTrim(val)
		c.sources["allowed_origins"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *OauthConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *OauthConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// AccessTokenTTL returns the user access token TTL as a duration.
func (c *OauthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the user refresh token TTL as a duration.
func (c *OauthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLMinutes) * time.Minute
}

// ServiceTokenTTL returns the service access token TTL as a duration.
func (c *OauthConfig) ServiceTokenTTL() time.Duration {
	return time.Duration(c.ServiceTokenTTLMinutes) * time.Minute
}

// QQAccessTokenTTL returns the QQ user access token TTL as a duration.
func (c *OauthConfig) QQAccessTokenTTL() time.Duration {
	return time.Duration(c.QQAccessTokenTTLMinutes) * time.Minute
}

// QQRefreshTokenTTL returns the QQ user refresh token TTL as a duration.
func (c *OauthConfig) QQRefreshTokenTTL() time.Duration {
	return time.Duration(c.QQRefreshTokenTTLDays) * 24 * time.Hour
}

// QQSigningKey returns the key used to sign QQ user tokens. Falls back to
// the general secret key, matching the original deployment behavior.
func (c *OauthConfig) QQSigningKey() string {
	if c.QQSecretKey != "" {
		return c.QQSecretKey
	}
	return c.SecretKey
}

// Validate validates the configuration.
func (c *OauthConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key is required (SECRET_KEY)")
	}
	if c.SessionSecretKey == "" {
		return fmt.Errorf("session_secret_key is required (SESSION_SECRET_KEY)")
	}
	for _, attr := range []struct{ name, value string }{
		{"github_redirect_uri", c.GithubRedirectURI},
		{"qq_redirect_uri", c.QQRedirectURI},
	} {
		u, err := url.Parse(attr.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s value: %s", attr.name, attr.value)
		}
	}
	for _, ttl := range []struct {
		name  string
		value int
	}{
		{"access_token_ttl_minutes", c.AccessTokenTTLMinutes},
		{"refresh_token_ttl_minutes", c.RefreshTokenTTLMinutes},
		{"service_token_ttl_minutes", c.ServiceTokenTTLMinutes},
		{"qq_access_token_ttl_minutes", c.QQAccessTokenTTLMinutes},
		{"qq_refresh_token_ttl_days", c.QQRefreshTokenTTLDays},
	} {
		if ttl.value <= 0 {
			return fmt.Errorf("%s must be positive", ttl.name)
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are redacted.
func (c *OauthConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "secret_key", Value: redact(c.SecretKey), Source: c.Source("secret_key")},
		{Name: "session_secret_key", Value: redact(c.SessionSecretKey), Source: c.Source("session_secret_key")},
		{Name: "access_token_ttl_minutes", Value: strconv.Itoa(c.AccessTokenTTLMinutes), Source: c.Source("access_token_ttl_minutes")},
		{Name: "refresh_token_ttl_minutes", Value: strconv.Itoa(c.RefreshTokenTTLMinutes), Source: c.Source("refresh_token_ttl_minutes")},
		{Name: "service_token_ttl_minutes", Value: strconv.Itoa(c.ServiceTokenTTLMinutes), Source: c.Source("service_token_ttl_minutes")},
		{Name: "github_client_id", Value: c.GithubClientID, Source: c.Source("github_client_id")},
		{Name: "github_client_secret", Value: redact(c.GithubClientSecret), Source: c.Source("github_client_secret")},
		{Name: "github_redirect_uri", Value: c.GithubRedirectURI, Source: c.Source("github_redirect_uri")},
		{Name: "qq_app_id", Value: c.QQAppID, Source: c.Source("qq_app_id")},
		{Name: "qq_app_key", Value: redact(c.QQAppKey), Source: c.Source("qq_app_key")},
		{Name: "qq_redirect_uri", Value: c.QQRedirectURI, Source: c.Source("qq_redirect_uri")},
		{Name: "qq_secret_key", Value: redact(c.QQSecretKey), Source: c.Source("qq_secret_key")},
		{Name: "qq_access_token_ttl_minutes", Value: strconv.Itoa(c.QQAccessTokenTTLMinutes), Source: c.Source("qq_access_token_ttl_minutes")},
		{Name: "qq_refresh_token_ttl_days", Value: strconv.Itoa(c.QQRefreshTokenTTLDays), Source: c.Source("qq_refresh_token_ttl_days")},
		{Name: "allowed_origins", Value: strings.Join(c.AllowedOrigins, ","), Source: c.Source("allowed_origins")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *OauthConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-32s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *OauthConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "(redacted)"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

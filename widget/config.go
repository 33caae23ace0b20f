package widget

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xy-planning-network/gatekeeper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is where LoadConfig looks unless told otherwise.
	DefaultConfigFile = "auth_config.yaml"

	// DefaultScope is requested when a Config sets none.
	DefaultScope = "openid profile email"

	ClientIDEnvVar     = "AUTH_CLIENT_ID"
	ClientSecretEnvVar = "AUTH_CLIENT_SECRET"
	DomainEnvVar       = "AUTH_DOMAIN"
	CallbackURLEnvVar  = "AUTH_CALLBACK_URL"
	AudienceEnvVar     = "AUTH_AUDIENCE"
	ScopeEnvVar        = "AUTH_SCOPE"
)

// A Config holds what is needed to reach the vendor on behalf of this application.
//
// ClientID and Domain identify the application to the vendor;
// the rest is needed because a server, not a browser, completes signing in.
type Config struct {
	ClientID     string `yaml:"client_id"`
	Domain       string `yaml:"domain"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
	Audience     string `yaml:"audience"`
	Scope        string `yaml:"scope"`
}

// LoadConfig reads a YAML Config from name in fsys
// and then overwrites its fields with any AUTH_* environment variables that are set.
//
// A missing file is not an error, so configuration can come from the environment alone.
// Once loaded, ClientID and Domain must be set, otherwise LoadConfig returns gatekeeper.ErrBadConfig.
func LoadConfig(fsys fs.FS, name string) (Config, error) {
	var cfg Config

	b, err := fs.ReadFile(fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("%w: reading %s: %s", gatekeeper.ErrBadConfig, name, err)

	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parsing %s: %s", gatekeeper.ErrBadConfig, name, err)
		}
	}

	cfg.ClientID = gatekeeper.EnvVarOrString(ClientIDEnvVar, cfg.ClientID)
	cfg.ClientSecret = gatekeeper.EnvVarOrString(ClientSecretEnvVar, cfg.ClientSecret)
	cfg.Domain = gatekeeper.EnvVarOrString(DomainEnvVar, cfg.Domain)
	cfg.CallbackURL = gatekeeper.EnvVarOrString(CallbackURLEnvVar, cfg.CallbackURL)
	cfg.Audience = gatekeeper.EnvVarOrString(AudienceEnvVar, cfg.Audience)
	cfg.Scope = gatekeeper.EnvVarOrString(ScopeEnvVar, cfg.Scope)

	if err := cfg.Valid(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Valid asserts ClientID and Domain are set.
func (c Config) Valid() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: client_id cannot be %q", gatekeeper.ErrBadConfig, c.ClientID)
	}

	if c.Domain == "" {
		return fmt.Errorf("%w: domain cannot be %q", gatekeeper.ErrBadConfig, c.Domain)
	}

	return nil
}

// scopes splits Scope into its parts, falling back to DefaultScope.
func (c Config) scopes() []string {
	if strings.TrimSpace(c.Scope) == "" {
		return strings.Fields(DefaultScope)
	}

	return strings.Fields(c.Scope)
}

// baseURL is the root of the vendor tenant.
// Domain is normally a bare host, e.g., example.us.auth0.com,
// but a scheme may be included to reach a vendor over plain HTTP.
func (c Config) baseURL() string {
	d := strings.TrimSuffix(c.Domain, "/")
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		return d
	}

	return "https://" + d
}

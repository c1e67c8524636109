package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const appConfigDir = "paperdrop"

// Account represents a single Gmail account configuration
type Account struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Paperless holds the document service settings. The API token lives in the
// system keyring, not in the config file; Load resolves it separately.
type Paperless struct {
	URL         string `toml:"url"`
	DefaultTags string `toml:"default_tags"`

	// Token is resolved from the keyring at load time.
	Token string `toml:"-"`
}

// Config represents the paperdrop configuration
type Config struct {
	Accounts  []Account `toml:"accounts"`
	Paperless Paperless `toml:"paperless"`
	Theme     Theme     `toml:"theme"`
	UI        UIConfig  `toml:"ui"`
}

// Configured reports whether both the service URL and token are set.
func (p Paperless) Configured() bool {
	return strings.TrimSpace(p.URL) != "" && strings.TrimSpace(p.Token) != ""
}

// TagList parses the comma-separated default tags into a trimmed list.
func (p Paperless) TagList() []string {
	if strings.TrimSpace(p.DefaultTags) == "" {
		return nil
	}
	parts := strings.Split(p.DefaultTags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appConfigDir, "config.toml"))
}

// Load reads the config file from disk and resolves the API token from the
// keyring. A missing config file yields an empty config, not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = Config{Accounts: []Account{}}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Paperless.URL = NormalizeServiceURL(cfg.Paperless.URL)

	token, err := LoadToken()
	if err != nil {
		return nil, err
	}
	cfg.Paperless.Token = token

	return &cfg, nil
}

// Save writes the config to disk. The token is never written here; use
// SaveToken for that.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	saved := *cfg
	saved.Paperless.URL = NormalizeServiceURL(cfg.Paperless.URL)

	data, err := toml.Marshal(&saved)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// NormalizeServiceURL strips trailing slashes and surrounding whitespace so
// paths can be appended uniformly.
func NormalizeServiceURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Package config resolves where the console keeps its files and how it
// reaches its backend. Settings come from four ordered sources, highest
// wins: command-line flags, process environment, a .env file, and
// config.yaml in the config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

// Backend variants.
const (
	BackendWebhook  = "webhook"
	BackendProvider = "provider"
	BackendDemo     = "demo"
)

// Paths locates every file the console owns under the config directory.
type Paths struct {
	ConfigDir    string
	SettingsFile string
	ThemeFile    string
	SessionFile  string
	DatabasePath string
	LogFile      string
}

// Initialize sets up the configuration directory and returns the paths.
// An empty dir means ~/.pilotctl.
func Initialize(dir string) (*Paths, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".pilotctl")
	}
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &Paths{
		ConfigDir:    dir,
		SettingsFile: filepath.Join(dir, "config.yaml"),
		ThemeFile:    filepath.Join(dir, "theme"),
		SessionFile:  filepath.Join(dir, "session.json"),
		DatabasePath: filepath.Join(dir, "pilotctl.db"),
		LogFile:      filepath.Join(dir, "pilotctl.log"),
	}, nil
}

// Settings selects and parameterizes the backend variant.
type Settings struct {
	// Backend is webhook, provider, or demo.
	Backend string `yaml:"backend"`
	// WebhookURL is the single action endpoint.
	WebhookURL string `yaml:"webhook_url"`
	// ProviderURL and ProviderKey reach the hosted auth + row API.
	ProviderURL string `yaml:"provider_url"`
	ProviderKey string `yaml:"provider_key"`
	// EventsURL is the optional instance event stream.
	EventsURL string `yaml:"events_url"`
}

// Environment variable names, mirroring the Settings fields.
const (
	EnvBackend     = "PILOTCTL_BACKEND"
	EnvWebhookURL  = "PILOTCTL_WEBHOOK_URL"
	EnvProviderURL = "PILOTCTL_PROVIDER_URL"
	EnvProviderKey = "PILOTCTL_PROVIDER_KEY"
	EnvEventsURL   = "PILOTCTL_EVENTS_URL"
)

// Load resolves the settings. envFile, when set, is fed into the process
// environment without overriding variables already present, so real
// environment beats the file.
func Load(paths *Paths, envFile string) (*Settings, error) {
	settings := &Settings{Backend: BackendWebhook}

	raw, err := os.ReadFile(paths.SettingsFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", paths.SettingsFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Running without a config file is fine; env can carry everything.
	default:
		return nil, fmt.Errorf("failed to read %s: %w", paths.SettingsFile, err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	applyEnv(&settings.Backend, EnvBackend)
	applyEnv(&settings.WebhookURL, EnvWebhookURL)
	applyEnv(&settings.ProviderURL, EnvProviderURL)
	applyEnv(&settings.ProviderKey, EnvProviderKey)
	applyEnv(&settings.EventsURL, EnvEventsURL)

	return settings, nil
}

func applyEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// Validate fails fast on a backend missing its connection settings, the
// same way the console refuses to start half-configured.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendWebhook:
		if s.WebhookURL == "" {
			return fmt.Errorf("backend %q requires webhook_url (or %s)", s.Backend, EnvWebhookURL)
		}
	case BackendProvider:
		if s.ProviderURL == "" || s.ProviderKey == "" {
			return fmt.Errorf("backend %q requires provider_url and provider_key (or %s / %s)",
				s.Backend, EnvProviderURL, EnvProviderKey)
		}
		// The provider variant keeps chat, instance, and support calls on
		// the webhook endpoint, so that URL is required here too.
		if s.WebhookURL == "" {
			return fmt.Errorf("backend %q requires webhook_url (or %s)", s.Backend, EnvWebhookURL)
		}
	case BackendDemo:
		// Fully local, nothing to validate.
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	return nil
}

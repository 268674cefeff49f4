package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/pkg/filesystem"
	"github.com/doeshing/gai-go/internal/ports"
)

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "GAI_CONFIG"

// FileLoader loads YAML configuration from ~/.gai/config.yaml (overridable via GAI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(ConfigEnvVar); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.GaiDir(), "config.yaml")
}

// Load implements ports.ConfigProvider. A missing file yields the defaults
// and writes them so users have something to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			// A read-only home must not block generation.
			_ = l.Save(cfg)
			return cfg, nil
		}
		return domain.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// Absent keys keep their defaults; explicit zero values are honoured.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return hydrateDefaults(cfg), nil
}

// Save writes cfg atomically with owner-only permissions.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(l.Path(), raw, domain.SecureFilePermissions)
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			TimeoutSeconds: int(domain.DefaultHTTPClientTimeout.Seconds()),
		},
		Generation: domain.GenerationSettings{
			MaxAttempts:      domain.DefaultMaxAttempts,
			RetryWaitSeconds: domain.DefaultRetryWait.Seconds(),
			Temperature:      domain.DefaultTemperature,
		},
		Context: domain.ContextSettings{
			LogCount: domain.DefaultLogCount,
		},
		Hooks: domain.HookSettings{
			Command:     domain.DefaultHookCommand,
			AutoInstall: true,
		},
		PullRequest: domain.PullRequestSettings{
			Backend: domain.PRBackendGH,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	defaults := DefaultConfig()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = defaults.ConfigFormatVersion
	}
	if cfg.Preferences.TimeoutSeconds <= 0 {
		cfg.Preferences.TimeoutSeconds = defaults.Preferences.TimeoutSeconds
	}
	if cfg.Generation.MaxAttempts <= 0 {
		cfg.Generation.MaxAttempts = defaults.Generation.MaxAttempts
	}
	if cfg.Generation.RetryWaitSeconds <= 0 {
		cfg.Generation.RetryWaitSeconds = defaults.Generation.RetryWaitSeconds
	}
	if cfg.Context.LogCount <= 0 {
		cfg.Context.LogCount = defaults.Context.LogCount
	}
	if cfg.Hooks.Command == "" {
		cfg.Hooks.Command = defaults.Hooks.Command
	}
	if cfg.PullRequest.Backend == "" {
		cfg.PullRequest.Backend = defaults.PullRequest.Backend
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

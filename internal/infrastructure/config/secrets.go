package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/pkg/filesystem"
	"github.com/doeshing/gai-go/internal/ports"
)

// CredentialsEnvVar overrides the credentials file location.
const CredentialsEnvVar = "GAI_CREDENTIALS"

// SecretStore resolves provider keys from, in order: the process
// environment, a .env file in the working directory, and ~/.gai/credentials.
// Captured keys are written to the credentials file only.
type SecretStore struct {
	path      string
	dotenv    string
	lookupEnv func(string) (string, bool)
}

// NewSecretStore builds a store. Empty paths use the defaults.
func NewSecretStore(path, dotenv string) *SecretStore {
	if path == "" {
		if custom := os.Getenv(CredentialsEnvVar); custom != "" {
			path = filesystem.ExpandPath(custom)
		} else {
			path = filepath.Join(filesystem.GaiDir(), "credentials")
		}
	}
	if dotenv == "" {
		dotenv = ".env"
	}
	return &SecretStore{path: path, dotenv: dotenv, lookupEnv: os.LookupEnv}
}

// Path returns the credentials file location.
func (s *SecretStore) Path() string {
	return s.path
}

// Load implements ports.CredentialStore.
func (s *SecretStore) Load(context.Context) (domain.Credentials, error) {
	local, err := readEnvFile(s.dotenv)
	if err != nil {
		return nil, err
	}
	stored, err := readEnvFile(s.path)
	if err != nil {
		return nil, err
	}

	creds := domain.Credentials{}
	for _, kind := range domain.ProviderPriority {
		for _, name := range kind.EnvVars() {
			if value := s.lookup(name, local, stored); value != "" {
				creds[kind] = value
				break
			}
		}
	}
	return creds, nil
}

func (s *SecretStore) lookup(name string, sources ...map[string]string) string {
	if value, ok := s.lookupEnv(name); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	for _, src := range sources {
		if value := strings.TrimSpace(src[name]); value != "" {
			return value
		}
	}
	return ""
}

// Save stores key under the provider's primary variable, keeping other entries.
func (s *SecretStore) Save(_ context.Context, provider domain.ProviderKind, key string) error {
	vars := provider.EnvVars()
	if len(vars) == 0 {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty credential for %s", provider)
	}

	existing, err := readEnvFile(s.path)
	if err != nil {
		return err
	}
	existing[vars[0]] = key
	content, err := godotenv.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return filesystem.WriteFileAtomic(s.path, []byte(content+"\n"), domain.SecureFilePermissions)
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

var _ ports.CredentialStore = (*SecretStore)(nil)

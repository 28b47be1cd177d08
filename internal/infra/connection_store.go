package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Connection sources reported by ConnectionStore.Resolve.
const (
	SourceEnv      = "env"
	SourceOverride = "override"
)

// ConnectionOverride is the persisted replacement for DATABASE_URL.
type ConnectionOverride struct {
	DatabaseURL string    `json:"database_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConnectionStore persists a connection override as a JSON file.
type ConnectionStore struct {
	mu   sync.Mutex
	path string
}

func NewConnectionStore(path string) *ConnectionStore {
	return &ConnectionStore{path: path}
}

// Load returns the stored override, or nil when none is persisted.
func (s *ConnectionStore) Load() (*ConnectionOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("connection store: read: %w", err)
	}
	var o ConnectionOverride
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("connection store: decode: %w", err)
	}
	if o.DatabaseURL == "" {
		return nil, nil
	}
	return &o, nil
}

// Save writes the override atomically (temp file + rename).
func (s *ConnectionStore) Save(dsn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(ConnectionOverride{DatabaseURL: dsn, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("connection store: mkdir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("connection store: write: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the override. Missing file is not an error.
func (s *ConnectionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("connection store: remove: %w", err)
	}
	return nil
}

// Resolve returns the DSN to use and where it came from. An override wins
// over the environment value.
func (s *ConnectionStore) Resolve(envDSN string) (string, string, error) {
	o, err := s.Load()
	if err != nil {
		return "", "", err
	}
	if o != nil {
		return o.DatabaseURL, SourceOverride, nil
	}
	return envDSN, SourceEnv, nil
}

// MaskDSN hides the password of a URL-form DSN. Anything that does not parse
// as a URL with a host is replaced by "****" entirely.
func MaskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "****"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// Package session persists the single bearer token the client holds between
// runs. The token is treated as an opaque credential: no format checks and
// no expiry logic live here.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const defaultTokenFile = "directory-client/token"

// FileStore keeps the token in a single file with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. An empty path resolves to
// "directory-client/token" under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve token path: %w", err)
		}
		path = filepath.Join(dir, defaultTokenFile)
	}
	return &FileStore{path: path}, nil
}

// Get returns the stored token, or "" when none is stored.
func (s *FileStore) Get() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Package session persists chainchat's local identity: the login credentials
// and a session reference file that plays the role the URL query parameter
// played in the web client. The reference file is watched so an external edit
// (another terminal, a pasted session id) is adopted by a running chat.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the persisted login state.
type Credentials struct {
	Token      string    `json:"token"`
	Address    string    `json:"address"`
	AgentID    string    `json:"agentId,omitempty"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// Store reads and writes local state files under one directory.
type Store struct {
	dir string
}

// NewStore builds a store rooted at dir, creating it when absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) credentialsPath() string {
	return filepath.Join(s.dir, "credentials.json")
}

// SessionRefPath returns the session reference file path, the external
// representation of the current session identifier.
func (s *Store) SessionRefPath() string {
	return filepath.Join(s.dir, "current-session")
}

// SaveCredentials persists login credentials with owner-only permissions.
func (s *Store) SaveCredentials(c Credentials) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.credentialsPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// LoadCredentials reads persisted credentials. A missing file returns zero
// credentials and no error.
func (s *Store) LoadCredentials() (Credentials, error) {
	var c Credentials
	data, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return c, nil
}

// ClearCredentials removes the persisted credentials.
func (s *Store) ClearCredentials() error {
	err := os.Remove(s.credentialsPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// ReadSessionRef returns the externally visible session identifier, empty
// when none is set.
func (s *Store) ReadSessionRef() string {
	data, err := os.ReadFile(s.SessionRefPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteSessionRef updates the external session identifier. An empty id
// removes the file.
func (s *Store) WriteSessionRef(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		err := os.Remove(s.SessionRefPath())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear session ref: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(s.SessionRefPath(), []byte(id+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write session ref: %w", err)
	}
	return nil
}

// TokenExpiry inspects a bearer token's expiry claim without verifying the
// signature; verification is the backend's job, this is only used to warn the
// user before a request fails. Returns zero time when the token carries no
// expiry.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

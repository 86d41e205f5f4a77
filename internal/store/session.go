// internal/store/session.go
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Credentials is the single serialized blob persisted across runs. The
// field names match the storage format of the browser client.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
}

// Session tracks the Anonymous/Authenticated state. Login stores the
// token pair and username; logout or any authentication failure clears
// them. There is no automatic token refresh; an expired token surfaces
// as an authentication error and requires a new login.
type Session struct {
	mu    sync.Mutex
	creds *Credentials
	path  string
	log   *logrus.Entry
}

const authFileName = "auth.json"

// NewSession loads the persisted blob from dir, if any. A missing or
// corrupt blob leaves the session anonymous.
func NewSession(dir string) *Session {
	s := &Session{
		path: filepath.Join(dir, authFileName),
		log:  logrus.WithField("component", "session"),
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil || creds.AccessToken == "" {
		s.log.Warn("Discarding unreadable auth state")
		os.Remove(s.path)
		return s
	}
	s.creds = &creds
	return s
}

// AccessToken implements api.TokenProvider. It returns "" while the
// session is anonymous.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.AccessToken
}

// Username returns the logged-in username, or "" when anonymous.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Username
}

// Authenticated reports whether a token pair is stored.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds != nil
}

// SetCredentials transitions to Authenticated and persists the blob.
func (s *Session) SetCredentials(access, refresh, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &Credentials{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     username,
	}
	data, err := json.Marshal(s.creds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Logout transitions to Anonymous and removes the persisted blob.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return
	}
	s.creds = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).Warn("Failed to remove auth state")
	}
}

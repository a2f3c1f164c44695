// Package session persists the authenticated user's token and identity
// between runs. The store holds three flat keys (token, user id, user name)
// in a JSON file, mirroring what the server hands back on login.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted login state. A zero Session means unauthenticated.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Store reads and writes the session file. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  Session
}

// NewStore loads any existing session from path. A missing or unreadable
// file is treated as logged out rather than an error.
func NewStore(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return s
	}
	s.cur = sess
	return s
}

// Login persists the given credentials. All three keys are written in one
// atomic file replace so a crash cannot leave a partial session behind.
func (s *Store) Login(token, userID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{Token: token, UserID: userID, UserName: userName}
	if err := s.write(sess); err != nil {
		return err
	}
	s.cur = sess
	return nil
}

// Logout clears the in-memory session and removes the session file.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = Session{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Get returns the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// IsAuthenticated reports whether both a token and a user id are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token != "" && s.cur.UserID != ""
}

func (s *Store) write(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Package auth holds the signed-in session: one token per profile, kept in
// the OS keyring or a locked file, and sent with every content request.
package auth

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/config"
)

// Session is the single place the token is read from. Init and Teardown are
// the only ways it changes.
type Session struct {
	mu       sync.RWMutex
	profile  string
	store    Store
	override string
	creds    *Credentials
	loaded   bool
}

// NewSession reads lazily from store. A non-empty override, typically from
// --token or PRESSCTL_TOKEN, wins over anything stored.
func NewSession(profile string, store Store, override string) *Session {
	return &Session{profile: profile, store: store, override: override}
}

// SessionFromConfig builds the session for the active profile. The file
// fallback lives next to the config file.
func SessionFromConfig(cfg config.Hook) *Session {
	dir := filepath.Dir(cfg.GetPath())
	return NewSession(cfg.GetProfile(), DefaultStore(dir), cfg.GetString(config.TokenConfigPath))
}

func (s *Session) Profile() string {
	return s.profile
}

// Init records a fresh login or registration
func (s *Session) Init(token string, user content.User) error {
	if token == "" {
		return errors.New("server returned an empty token")
	}
	creds := &Credentials{Token: token, User: user, ReceivedAt: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(s.profile, creds); err != nil {
		return err
	}
	s.creds = creds
	s.loaded = true
	return nil
}

// Teardown forgets the stored session. It succeeds when nothing was stored.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(s.profile); err != nil {
		return err
	}
	s.creds = nil
	s.loaded = true
	return nil
}

// Token returns the override or the stored token, or "" when signed out
func (s *Session) Token() string {
	if s.override != "" {
		return s.override
	}
	if creds := s.current(); creds != nil {
		return creds.Token
	}
	return ""
}

// User returns the stored account, if any. An override token carries no
// user record.
func (s *Session) User() (content.User, bool) {
	creds := s.current()
	if creds == nil {
		return content.User{}, false
	}
	return creds.User, true
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) current() *Credentials {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.creds
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		creds, err := s.store.Load(s.profile)
		if err == nil {
			s.creds = creds
		}
		s.loaded = true
	}
	return s.creds
}

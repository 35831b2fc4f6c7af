package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/zalando/go-keyring"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// ErrNoCredentials is returned by a Store holding nothing for a profile
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is what a successful login or registration leaves behind
type Credentials struct {
	Token      string       `json:"token"`
	User       content.User `json:"user"`
	ReceivedAt time.Time    `json:"received_at"`
}

type Store interface {
	Load(profile string) (*Credentials, error)
	Save(profile string, creds *Credentials) error
	Delete(profile string) error
}

// Keyring is the part of the OS keyring the store needs
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }

func (osKeyring) Set(service, user, secret string) error { return keyring.Set(service, user, secret) }

func (osKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// KeyringStore keeps the token in the OS keyring under a per profile service
// name. The user record is stored as a second secret next to it. A nil
// Keyring uses the system one.
type KeyringStore struct {
	Keyring Keyring
}

func keyringService(profile string) string {
	return meta.CLIName + "/" + profile
}

func (k KeyringStore) ring() Keyring {
	if k.Keyring == nil {
		return osKeyring{}
	}
	return k.Keyring
}

func (k KeyringStore) Load(profile string) (*Credentials, error) {
	service := keyringService(profile)
	token, err := k.ring().Get(service, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}

	creds := &Credentials{Token: token}
	if raw, err := k.ring().Get(service, userKey); err == nil {
		// a damaged user record is not worth failing the token over
		_ = json.Unmarshal([]byte(raw), creds)
		creds.Token = token
	}
	return creds, nil
}

// Save writes the token and then the user record. When the second write
// fails both entries are removed, so the keyring never serves a token
// without the user it belongs to.
func (k KeyringStore) Save(profile string, creds *Credentials) error {
	service := keyringService(profile)
	record, err := json.Marshal(struct {
		User       content.User `json:"user"`
		ReceivedAt time.Time    `json:"received_at"`
	}{creds.User, creds.ReceivedAt})
	if err != nil {
		return err
	}

	if err := k.ring().Set(service, tokenKey, creds.Token); err != nil {
		return err
	}
	if err := k.ring().Set(service, userKey, string(record)); err != nil {
		if rerr := k.Delete(profile); rerr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back keyring token: %w", rerr))
		}
		return err
	}
	return nil
}

func (k KeyringStore) Delete(profile string) error {
	service := keyringService(profile)
	err := k.ring().Delete(service, tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	err = k.ring().Delete(service, userKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// FileStore writes one 0600 JSON file per profile. Reads and writes take an
// advisory lock so two processes never interleave.
type FileStore struct {
	Dir string
}

func (f FileStore) path(profile string) string {
	return filepath.Join(f.Dir, fmt.Sprintf(".%s-session.json", profile))
}

func (f FileStore) lock(profile string) (*flock.Flock, error) {
	if err := os.MkdirAll(f.Dir, 0o700); err != nil {
		return nil, err
	}
	fl := flock.New(f.path(profile) + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock session file: %w", err)
	}
	return fl, nil
}

func (f FileStore) Load(profile string) (*Credentials, error) {
	fl, err := f.lock(profile)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock() //nolint:errcheck

	data, err := os.ReadFile(f.path(profile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", f.path(profile), err)
	}
	if creds.Token == "" {
		return nil, ErrNoCredentials
	}
	return &creds, nil
}

func (f FileStore) Save(profile string, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	fl, err := f.lock(profile)
	if err != nil {
		return err
	}
	defer fl.Unlock() //nolint:errcheck

	return os.WriteFile(f.path(profile), data, 0o600)
}

func (f FileStore) Delete(profile string) error {
	fl, err := f.lock(profile)
	if err != nil {
		return err
	}
	defer fl.Unlock() //nolint:errcheck

	err = os.Remove(f.path(profile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FallbackStore prefers Primary and uses Secondary when Primary is
// unavailable, e.g. a headless machine without a secret service.
type FallbackStore struct {
	Primary   Store
	Secondary Store
}

func (s FallbackStore) Load(profile string) (*Credentials, error) {
	creds, err := s.Primary.Load(profile)
	if err == nil {
		return creds, nil
	}
	return s.Secondary.Load(profile)
}

func (s FallbackStore) Save(profile string, creds *Credentials) error {
	if err := s.Primary.Save(profile, creds); err == nil {
		// drop any stale copy so Load cannot resurrect an older session
		_ = s.Secondary.Delete(profile)
		return nil
	}
	return s.Secondary.Save(profile, creds)
}

func (s FallbackStore) Delete(profile string) error {
	if err := s.Secondary.Delete(profile); err != nil {
		return err
	}
	err := s.Primary.Delete(profile)
	if err == nil {
		return nil
	}
	// an unreachable keyring holds nothing to forget
	if _, lerr := s.Primary.Load(profile); lerr != nil {
		return nil
	}
	return err
}

// DefaultStore is the keyring with a file fallback in dir
func DefaultStore(dir string) Store {
	return FallbackStore{Primary: KeyringStore{}, Secondary: FileStore{Dir: dir}}
}

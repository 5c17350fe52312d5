package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// TokenStore persists the two opaque auth tokens. Absence of an access token
// means unauthenticated. Only session operations may write through it.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
	Clear() error
}

var ErrTokenStoreUnavailable = errors.New("token store is unavailable")

// MemoryTokenStore keeps tokens for the lifetime of the process.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.SetTokens("", "")
}

type tokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FileTokenStore persists tokens as a small JSON file, read once at startup
// and rewritten on every auth mutation.
type FileTokenStore struct {
	mu     sync.Mutex
	path   string
	tokens tokenFile
}

func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.tokens); err != nil {
		// A corrupt token file is treated as logged out.
		s.tokens = tokenFile{}
	}
	return s, nil
}

func (s *FileTokenStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.AccessToken
}

func (s *FileTokenStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.RefreshToken
}

func (s *FileTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokenFile{AccessToken: access, RefreshToken: refresh}
	return s.write()
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokenFile{}
	return s.write()
}

func (s *FileTokenStore) write() error {
	data, err := json.Marshal(s.tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

package store

import (
	"path/filepath"
	"sync"

	"socialfi/internal/domain"
)

const sessionFilename = "wallet_session.json"

// SessionFileStore persists the connected wallet address and provider kind so
// the session can be restored on the next run.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// SaveSession writes both keys.
func (s *SessionFileStore) SaveSession(session domain.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(filepath.Join(s.dir, sessionFilename), session, 0o600)
}

// LoadSession returns the stored session. ok is false unless both the address
// and the provider kind are present.
func (s *SessionFileStore) LoadSession() (domain.PersistedSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p domain.PersistedSession
	found, err := readJSON(filepath.Join(s.dir, sessionFilename), &p)
	if err != nil {
		return domain.PersistedSession{}, false, err
	}
	if !found || !p.Complete() {
		return domain.PersistedSession{}, false, nil
	}
	return p, true, nil
}

// ClearSession removes both keys.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return removeFile(filepath.Join(s.dir, sessionFilename))
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)

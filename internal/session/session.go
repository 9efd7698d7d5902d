package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Version guards the persisted layout. A file with a different version is
// wiped rather than migrated.
const Version = 1

// AuthSlice holds the whitelisted auth fields that survive restarts.
type AuthSlice struct {
	Token       string `json:"token,omitempty"`
	KitchenID   string `json:"kitchenId,omitempty"`
	KitchenName string `json:"kitchenName,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// snapshot is the on-disk layout under the versioned root key. Only the
// whitelisted slices appear here: orders are always refetched and
// notifications die with the session.
type snapshot struct {
	Version       int       `json:"version"`
	SessionID     string    `json:"sessionId"`
	Auth          AuthSlice `json:"auth"`
	KitchenOnline bool      `json:"kitchenOnline"`
}

type root struct {
	Root snapshot `json:"root"`
}

// Store persists the whitelisted state slices to a JSON file.
type Store struct {
	path string

	mu   sync.Mutex
	snap snapshot
}

// Open loads the persisted session state. Anything unreadable, from a
// different layout version, or outside the whitelist is wiped on the spot,
// so each process starts from a known-clean file exactly once.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	s.snap = snapshot{Version: Version, SessionID: uuid.New().String()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// first run, nothing to load
	case err != nil:
		return nil, fmt.Errorf("read session file: %w", err)
	default:
		var r root
		if jsonErr := json.Unmarshal(data, &r); jsonErr != nil || r.Root.Version != Version {
			log.Printf("[Session] Wiping stale session state at %s", path)
		} else {
			s.snap.Auth = r.Root.Auth
			s.snap.KitchenOnline = r.Root.KitchenOnline
		}
	}

	// Rewrite with only the whitelisted slices. This is the once-per-session
	// wipe of everything else.
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionID identifies this process's session in logs.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.SessionID
}

func (s *Store) Auth() AuthSlice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Auth
}

func (s *Store) SetAuth(a AuthSlice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Auth = a
	return s.save()
}

func (s *Store) KitchenOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.KitchenOnline
}

func (s *Store) SetKitchenOnline(online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.KitchenOnline = online
	return s.save()
}

// Reset drops the persisted slices, as on logout.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Auth = AuthSlice{}
	s.snap.KitchenOnline = false
	return s.save()
}

// save must be called with the lock held (or before the store escapes).
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(root{Root: s.snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

package selection

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// Storage is the durable key-value persistence the store mirrors itself into
// on every mutation
type Storage interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Store holds the working set of tools each anonymous session is assembling
// into a not-yet-published kit. Entries are full tool snapshots, not ids: the
// cart must stay displayable and publishable even if a tool is edited or
// deleted on the remote side before publish time.
//
// The set is ordered by insertion and never contains two entries with the
// same tool id. The whole set is serialized to storage on every mutation and
// rehydrated on first access, so a cart survives restarts; an unreadable or
// corrupt payload degrades to an empty set rather than an error.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger
	carts   map[string][]model.Tool
}

// NewStore creates a selection store backed by the given storage
func NewStore(storage Storage, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
		carts:   make(map[string][]model.Tool),
	}
}

func storageKey(sessionID string) string {
	return "selection:" + sessionID
}

// Toggle removes the tool from the session's cart when present, otherwise
// appends a snapshot of it. Returns the resulting cart and whether the tool
// is now selected.
func (s *Store) Toggle(sessionID string, tool model.Tool) ([]model.Tool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(sessionID)

	selected := true
	next := make([]model.Tool, 0, len(cart)+1)
	for _, entry := range cart {
		if entry.ID == tool.ID {
			selected = false
			continue
		}
		next = append(next, entry)
	}
	if selected {
		next = append(next, tool)
	}

	s.carts[sessionID] = next
	if err := s.persist(sessionID, next); err != nil {
		return nil, false, err
	}

	return snapshot(next), selected, nil
}

// Items returns the session's cart in insertion order
func (s *Store) Items(sessionID string) []model.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.load(sessionID))
}

// Count returns the size of the session's cart
func (s *Store) Count(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load(sessionID))
}

// Clear empties the session's cart. Called after a successful kit publication.
func (s *Store) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = []model.Tool{}
	if err := s.storage.Delete(storageKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

// load returns the in-memory cart for the session, rehydrating it from
// storage on first access. Caller must hold the lock.
func (s *Store) load(sessionID string) []model.Tool {
	if cart, ok := s.carts[sessionID]; ok {
		return cart
	}

	cart := []model.Tool{}
	raw, found, err := s.storage.Get(storageKey(sessionID))
	if err != nil {
		s.logger.Warn("Failed to read persisted selection, starting empty",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else if found {
		if err := json.Unmarshal([]byte(raw), &cart); err != nil {
			s.logger.Warn("Persisted selection is corrupt, starting empty",
				zap.String("session_id", sessionID),
				zap.Error(err))
			cart = []model.Tool{}
		}
	}

	s.carts[sessionID] = cart
	return cart
}

// persist serializes the full cart before touching storage, so a failure can
// never leave a previously valid payload unparseable. Caller must hold the
// lock.
func (s *Store) persist(sessionID string, cart []model.Tool) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize selection: %w", err)
	}
	if err := s.storage.Put(storageKey(sessionID), string(raw)); err != nil {
		return fmt.Errorf("failed to persist selection: %w", err)
	}
	return nil
}

func snapshot(cart []model.Tool) []model.Tool {
	out := make([]model.Tool, len(cart))
	copy(out, cart)
	return out
}

package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
)

// View modes the catalog can be rendered in
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// Preferences is the small amount of per-browser state that survives reload:
// the last-used author display name and the preferred view mode
type Preferences struct {
	AuthorName string `json:"author_name,omitempty"`
	ViewMode   string `json:"view_mode,omitempty"`
}

// Storage is the durable key-value persistence preferences live in
type Storage interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Manager hands out anonymous session identifiers and keeps per-session
// preferences. The identifier attributes likes without authentication; it is
// generated once and kept by the browser for its lifetime.
type Manager struct {
	storage Storage
	logger  *zap.Logger
}

// NewManager creates a session manager backed by the given storage
func NewManager(storage Storage, logger *zap.Logger) *Manager {
	return &Manager{storage: storage, logger: logger}
}

// NewID mints a fresh anonymous session identifier
func (m *Manager) NewID() string {
	return uuid.New().String()
}

func prefsKey(sessionID string) string {
	return "prefs:" + sessionID
}

// Preferences returns the session's stored preferences; absent or corrupt
// storage degrades to defaults
func (m *Manager) Preferences(sessionID string) Preferences {
	prefs := Preferences{ViewMode: ViewModeGrid}

	raw, found, err := m.storage.Get(prefsKey(sessionID))
	if err != nil {
		m.logger.Warn("Failed to read preferences",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return prefs
	}
	if !found {
		return prefs
	}

	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		m.logger.Warn("Stored preferences are corrupt, using defaults",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return Preferences{ViewMode: ViewModeGrid}
	}
	if prefs.ViewMode == "" {
		prefs.ViewMode = ViewModeGrid
	}
	return prefs
}

// SavePreferences validates and persists the session's preferences
func (m *Manager) SavePreferences(sessionID string, prefs Preferences) error {
	if prefs.ViewMode != "" && prefs.ViewMode != ViewModeGrid && prefs.ViewMode != ViewModeList {
		return apperr.Validationf("view_mode must be %q or %q", ViewModeGrid, ViewModeList)
	}

	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}
	if err := m.storage.Put(prefsKey(sessionID), string(raw)); err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	return nil
}

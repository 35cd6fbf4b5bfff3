// Package settings persists the shell's small key-value record in a TOML
// file.
package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Settings is the persisted record.
type Settings struct {
	SidebarVisible bool   `toml:"sidebar_visible"`
	HasSeenWelcome bool   `toml:"has_seen_welcome"`
	InstallID      string `toml:"install_id"`
	LastPingDate   string `toml:"last_ping_date"` // YYYY-MM-DD
}

// Defaults returns the settings used when no file exists.
func Defaults() *Settings {
	return &Settings{SidebarVisible: true}
}

// Reader is the read-only view the page-load hook needs.
type Reader interface {
	SidebarVisible() bool
}

// Manager loads and saves Settings.
type Manager struct {
	path string
	mu   sync.Mutex
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// NewDefaultManager creates a manager for the file in DataDir.
func NewDefaultManager() *Manager {
	return NewManager(SettingsPath())
}

// Path returns the settings file path.
func (m *Manager) Path() string {
	return m.path
}

// load reads the settings file, applying defaults for missing keys
func (m *Manager) load() (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), s); err != nil {
		return Defaults(), nil // Return defaults on parse error
	}
	return s, nil
}

// save writes s, preserving keys this version does not know about
func (m *Manager) save(s *Settings) error {
	existingData, _ := os.ReadFile(m.path)

	var existing map[string]interface{}
	if len(existingData) > 0 {
		if err := toml.Unmarshal(existingData, &existing); err != nil {
			existing = make(map[string]interface{})
		}
	} else {
		existing = make(map[string]interface{})
	}

	existing["sidebar_visible"] = s.SidebarVisible
	existing["has_seen_welcome"] = s.HasSeenWelcome
	existing["install_id"] = s.InstallID
	existing["last_ping_date"] = s.LastPingDate

	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existingData) == 0 {
		buf.WriteString("# Messenger settings\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existing); err != nil {
		return err
	}
	return os.WriteFile(m.path, buf.Bytes(), 0600)
}

func (m *Manager) update(fn func(s *Settings)) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load()
	if err != nil {
		s = Defaults()
	}
	fn(s)
	if err := m.save(s); err != nil {
		return s, err
	}
	return s, nil
}

// Get returns the current settings.
func (m *Manager) Get() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// SidebarVisible reports the sidebar flag, true when unreadable.
func (m *Manager) SidebarVisible() bool {
	s, err := m.Get()
	if err != nil {
		return true
	}
	return s.SidebarVisible
}

// SetSidebarVisible stores the sidebar flag.
func (m *Manager) SetSidebarVisible(visible bool) error {
	_, err := m.update(func(s *Settings) { s.SidebarVisible = visible })
	return err
}

// ToggleSidebar flips the sidebar flag and returns the new value.
func (m *Manager) ToggleSidebar() (bool, error) {
	s, err := m.update(func(s *Settings) { s.SidebarVisible = !s.SidebarVisible })
	return s.SidebarVisible, err
}

// InstallID returns the install id, generating and saving one on first use.
func (m *Manager) InstallID() (string, error) {
	s, err := m.Get()
	if err == nil && s.InstallID != "" {
		return s.InstallID, nil
	}
	s, err = m.update(func(s *Settings) {
		if s.InstallID == "" {
			s.InstallID = uuid.NewString()
		}
	})
	return s.InstallID, err
}

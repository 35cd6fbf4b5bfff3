// Package desktop wires the navigation policy, cookie persistence and
// sidebar state into the one object the host talks to.
package desktop

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ahsanlashari87/messenger-mac/internal/cookies"
	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
	"github.com/Ahsanlashari87/messenger-mac/internal/navigation"
	"github.com/Ahsanlashari87/messenger-mac/internal/ui"
)

// ErrNoSettings is returned by ToggleSidebar when the shell has no
// settings store.
var ErrNoSettings = errors.New("no settings store")

// Version is set at build time via ldflags
var Version = "0.1.0-dev"

// Settings is the part of the settings store the shell uses.
type Settings interface {
	SidebarVisible() bool
	ToggleSidebar() (bool, error)
}

// Config holds the host collaborators of a Shell.
type Config struct {
	Store    cookies.Store
	Opener   navigation.Opener
	Settings Settings
	Sink     ui.Sink
	Audit    cookies.AuditLog
	Logger   *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Shell routes host events to the navigation enforcer, the cookie manager
// and the page.
type Shell struct {
	enforcer *navigation.Enforcer
	cookies  *cookies.Manager
	settings Settings
	sink     ui.Sink
	logger   *zap.Logger
}

// New creates a Shell. Nothing is subscribed until Attach.
func New(cfg Config) *Shell {
	logger := logging.OrNop(cfg.Logger)
	return &Shell{
		enforcer: navigation.NewEnforcer(cfg.Opener, logger),
		cookies: cookies.NewManager(cookies.ManagerConfig{
			Store:  cfg.Store,
			Audit:  cfg.Audit,
			Logger: logger,
			Now:    cfg.Now,
		}),
		settings: cfg.Settings,
		sink:     cfg.Sink,
		logger:   logger,
	}
}

// Attach subscribes the cookie manager to the store. Closing the returned
// subscription detaches it.
func (s *Shell) Attach() *cookies.Subscription {
	return s.cookies.Attach()
}

// HandleNewWindow answers a window.open request from the page.
func (s *Shell) HandleNewWindow(url string) navigation.Decision {
	return s.enforcer.HandleNewWindow(url)
}

// HandleNavigation answers an in-page navigation.
func (s *Shell) HandleNavigation(url string) navigation.Decision {
	return s.enforcer.HandleNavigation(url)
}

// PageLoaded reapplies the sidebar flag. The page re-renders its layout on
// every load, so this runs after each one.
func (s *Shell) PageLoaded() {
	s.send(ui.Sidebar(s.sidebarVisible()))
}

// ToggleSidebar flips the stored flag and applies the new value.
func (s *Shell) ToggleSidebar() (bool, error) {
	if s.settings == nil {
		return true, ErrNoSettings
	}
	visible, err := s.settings.ToggleSidebar()
	if err != nil {
		return visible, fmt.Errorf("failed to toggle sidebar: %w", err)
	}
	s.send(ui.Sidebar(visible))
	return visible, nil
}

// NewMessage opens the compose view.
func (s *Shell) NewMessage() {
	s.send(ui.ActivateLandmark{Landmark: ui.NewMessage})
}

// OpenConversation opens the n-th conversation (1-based) in the list.
func (s *Shell) OpenConversation(n int) error {
	if n < 1 || n > ui.MaxConversationShortcut {
		return fmt.Errorf("conversation %d out of range 1-%d", n, ui.MaxConversationShortcut)
	}
	s.send(ui.OpenConversation{Index: n - 1})
	return nil
}

// CookieStats reports the cookie manager's counters.
func (s *Shell) CookieStats() cookies.Stats {
	return s.cookies.Stats()
}

// GetVersion returns the application version
func (s *Shell) GetVersion() string {
	return Version
}

func (s *Shell) sidebarVisible() bool {
	if s.settings == nil {
		return true
	}
	return s.settings.SidebarVisible()
}

func (s *Shell) send(cmd ui.Command) {
	if s.sink == nil {
		s.logger.Debug("[shell] no sink, dropping command", zap.String("type", cmd.Type()))
		return
	}
	s.sink.Send(cmd)
}

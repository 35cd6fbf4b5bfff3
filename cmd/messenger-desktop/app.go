package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Ahsanlashari87/messenger-mac/internal/cookies"
	"github.com/Ahsanlashari87/messenger-mac/internal/desktop"
	"github.com/Ahsanlashari87/messenger-mac/internal/navigation"
	"github.com/Ahsanlashari87/messenger-mac/internal/settings"
	"github.com/Ahsanlashari87/messenger-mac/internal/ui"
	"github.com/Ahsanlashari87/messenger-mac/internal/webhost"
)

// Package-level hooks for testing. In production, these use the Wails runtime.
var (
	openURL    = wailsRuntime.BrowserOpenURL
	emitEvent  = wailsRuntime.EventsEmit
	onEvent    = wailsRuntime.EventsOn
	quitWindow = wailsRuntime.Quit
)

// App struct holds the application state. Its exported methods are bound
// to the page and called by the bridge script.
type App struct {
	ctx      context.Context
	logger   *zap.Logger
	settings *settings.Manager
	jar      *webhost.Jar
	proxy    *webhost.Proxy
	audit    *cookies.FileAuditLog
	shell    *desktop.Shell

	subscription  *cookies.Subscription
	offPageLoaded func()
}

// NewApp creates the App and the proxy that serves the page. Nothing is
// read from disk until startup.
func NewApp(logger *zap.Logger) (*App, error) {
	jar := webhost.NewJar(settings.CookieJarPath(), logger.Named("jar"))
	proxy, err := webhost.NewProxy(navigation.HomeURL, jar, webhost.NewBridge(navigation.HomeURL), logger.Named("proxy"))
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}
	return &App{
		logger:   logger,
		settings: settings.NewDefaultManager(),
		jar:      jar,
		proxy:    proxy,
	}, nil
}

// startup is called when the app starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if id, err := a.settings.InstallID(); err != nil {
		a.logger.Warn("failed to read install id", zap.Error(err))
	} else {
		a.logger.Info("starting", zap.String("version", desktop.Version), zap.String("install_id", id))
	}

	if err := a.jar.Load(); err != nil {
		a.logger.Warn("failed to load cookies", zap.Error(err))
	}

	var audit cookies.AuditLog
	if f, err := cookies.OpenAuditLog(settings.AuditLogPath()); err != nil {
		a.logger.Warn("cookie audit log disabled", zap.Error(err))
	} else {
		a.audit = f
		audit = f
	}

	a.shell = desktop.New(desktop.Config{
		Store: a.jar,
		Opener: navigation.OpenerFunc(func(url string) {
			openURL(ctx, url)
		}),
		Settings: a.settings,
		Sink: ui.SinkFunc(func(cmd ui.Command) {
			emitEvent(ctx, webhost.CommandEvent, ui.Wrap(cmd))
		}),
		Audit:  audit,
		Logger: a.logger.Named("shell"),
	})
	a.subscription = a.shell.Attach()
	a.offPageLoaded = onEvent(ctx, webhost.PageLoadedEvent, func(...interface{}) {
		a.shell.PageLoaded()
	})
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	if a.offPageLoaded != nil {
		a.offPageLoaded()
	}
	// Deliver queued cookie changes, and the promotions they cause, while
	// the manager is still attached.
	a.jar.Drain()
	a.subscription.Close()

	if err := a.jar.Close(); err != nil {
		a.logger.Error("failed to save cookies", zap.Error(err))
	}
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			a.logger.Warn("failed to close audit log", zap.Error(err))
		}
	}
	if a.shell != nil {
		stats := a.shell.CookieStats()
		a.logger.Info("stopped",
			zap.Int64("cookies_observed", stats.Observed),
			zap.Int64("cookies_promoted", stats.Acked),
			zap.Int64("cookies_failed", stats.Failed),
		)
	}
}

// GetVersion returns the application version.
func (a *App) GetVersion() string {
	return desktop.Version
}

// RequestNavigation is called by the page before it changes location.
func (a *App) RequestNavigation(url string) navigation.Decision {
	if a.shell == nil {
		return navigation.Decision{Action: navigation.Deny}
	}
	return a.shell.HandleNavigation(url)
}

// RequestNewWindow is called by the page instead of opening a window.
func (a *App) RequestNewWindow(url string) navigation.Decision {
	if a.shell == nil {
		return navigation.Decision{Action: navigation.Deny}
	}
	return a.shell.HandleNewWindow(url)
}

// ToggleSidebar flips the sidebar and returns the new visibility.
func (a *App) ToggleSidebar() (bool, error) {
	if a.shell == nil {
		return true, fmt.Errorf("app not started")
	}
	return a.shell.ToggleSidebar()
}

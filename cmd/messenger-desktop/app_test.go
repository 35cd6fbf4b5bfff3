package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Ahsanlashari87/messenger-mac/internal/navigation"
	"github.com/Ahsanlashari87/messenger-mac/internal/settings"
	"github.com/Ahsanlashari87/messenger-mac/internal/ui"
	"github.com/Ahsanlashari87/messenger-mac/internal/webhost"
)

// runtimeRecorder replaces the Wails runtime hooks for the duration of a test.
type runtimeRecorder struct {
	mu       sync.Mutex
	opened   []string
	emitted  []interface{}
	handlers map[string]func(...interface{})
}

func stubRuntime(t *testing.T) *runtimeRecorder {
	t.Helper()
	rec := &runtimeRecorder{handlers: map[string]func(...interface{}){}}

	origOpen, origEmit, origOn := openURL, emitEvent, onEvent
	t.Cleanup(func() { openURL, emitEvent, onEvent = origOpen, origEmit, origOn })

	openURL = func(_ context.Context, url string) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.opened = append(rec.opened, url)
	}
	emitEvent = func(_ context.Context, name string, data ...interface{}) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if name == webhost.CommandEvent {
			rec.emitted = append(rec.emitted, data...)
		}
	}
	onEvent = func(_ context.Context, name string, fn func(...interface{})) func() {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.handlers[name] = fn
		return func() {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			delete(rec.handlers, name)
		}
	}
	return rec
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv(settings.DataDirEnv, t.TempDir())
	app, err := NewApp(zap.NewNop())
	require.NoError(t, err)
	return app
}

func TestApp_GetVersion(t *testing.T) {
	app := newTestApp(t)
	assert.NotEmpty(t, app.GetVersion())
}

func TestApp_BeforeStartup(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, navigation.Deny, app.RequestNavigation(navigation.HomeURL).Action)
	assert.Equal(t, navigation.Deny, app.RequestNewWindow("https://example.com").Action)
	_, err := app.ToggleSidebar()
	assert.Error(t, err)
	assert.NotPanics(t, func() {
		app.onNewMessage()
		app.onToggleSidebar()
		app.onOpenConversation(1)
	})
}

func TestApp_StartupAndShutdown(t *testing.T) {
	rec := stubRuntime(t)
	app := newTestApp(t)
	dataDir := settings.DataDir()

	app.startup(context.Background())

	d := app.RequestNavigation("https://www.messenger.com/t/1")
	assert.Equal(t, navigation.Allow, d.Action)
	d = app.RequestNewWindow("https://example.com/x")
	assert.Equal(t, navigation.Deny, d.Action)
	assert.Equal(t, []string{"https://example.com/x"}, rec.opened)

	// The bridge reports a page load; the sidebar flag is applied.
	require.Contains(t, rec.handlers, webhost.PageLoadedEvent)
	rec.handlers[webhost.PageLoadedEvent]("/")
	visible, err := app.ToggleSidebar()
	require.NoError(t, err)
	assert.False(t, visible)
	app.onOpenConversation(3)

	assert.Equal(t, []interface{}{
		ui.Wrap(ui.Sidebar(true)),
		ui.Wrap(ui.Sidebar(false)),
		ui.Wrap(ui.OpenConversation{Index: 2}),
	}, rec.emitted)

	app.shutdown(context.Background())
	assert.NotContains(t, rec.handlers, webhost.PageLoadedEvent)

	for _, name := range []string{settings.SettingsFile, settings.AuditLogFile, settings.CookieJarFile} {
		_, err := os.Stat(filepath.Join(dataDir, name))
		assert.NoError(t, err, name)
	}
}

func TestApp_ShutdownKeepsQueuedCookies(t *testing.T) {
	stubRuntime(t)
	app := newTestApp(t)
	app.startup(context.Background())

	u, err := url.Parse(navigation.HomeURL)
	require.NoError(t, err)
	app.jar.SetCookies(u, []*http.Cookie{{Name: "c_user", Value: "1", Domain: ".messenger.com", Path: "/"}})
	app.shutdown(context.Background())

	stats := app.shell.CookieStats()
	assert.Equal(t, int64(1), stats.Acked)

	audit, err := os.ReadFile(settings.AuditLogPath())
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(audit), "cookie changed"))

	reloaded := webhost.NewJar(settings.CookieJarPath(), nil)
	defer reloaded.Close()
	require.NoError(t, reloaded.Load())
	require.Len(t, reloaded.All(), 1)
	assert.False(t, reloaded.All()[0].Session)
}

func TestApp_BuildMenu(t *testing.T) {
	app := newTestApp(t)
	m := app.buildMenu()
	require.NotNil(t, m)
	assert.NotEmpty(t, m.Items)
}

func TestWailsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newWailsLogger(zap.New(core))

	l.Info("ready")
	l.Warning("slow")
	l.Fatal("gone")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "wails", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

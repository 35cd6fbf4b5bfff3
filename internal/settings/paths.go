package settings

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-user data directory.
const AppName = "MessengerApp"

const (
	SettingsFile  = "settings.toml"
	AuditLogFile  = "cookies.log"
	CookieJarFile = "cookies.json"
)

// DataDirEnv overrides the data directory, mainly for development.
const DataDirEnv = "MESSENGER_DATA_DIR"

// Package-level hook for testing.
var getEnvVar = os.Getenv

// DataDir returns the directory holding settings, the cookie jar and the
// cookie audit log.
// On Linux: ~/.local/share/MessengerApp
// On macOS: ~/Library/Application Support/MessengerApp
// On Windows: %LOCALAPPDATA%\MessengerApp
func DataDir() string {
	if dir := getEnvVar(DataDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// SettingsPath returns the default settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), SettingsFile)
}

// AuditLogPath returns the default cookie audit log path.
func AuditLogPath() string {
	return filepath.Join(DataDir(), AuditLogFile)
}

// CookieJarPath returns the default path of the persisted cookie jar.
func CookieJarPath() string {
	return filepath.Join(DataDir(), CookieJarFile)
}

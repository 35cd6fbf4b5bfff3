package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuditLog records every observed cookie change. Record must not fail the
// caller.
type AuditLog interface {
	Record(ev ChangeEvent)
}

// AuditFunc adapts a function to AuditLog.
type AuditFunc func(ev ChangeEvent)

// Record calls f(ev).
func (f AuditFunc) Record(ev ChangeEvent) { f(ev) }

// FileAuditLog appends one line per change to a text file. Lines look like
//
//	2026-01-02T15:04:05.000+0000 - cookie changed - {"name":"c_user","domain":".messenger.com",...}
type FileAuditLog struct {
	path   string
	file   *os.File
	logger *zap.Logger
}

// OpenAuditLog opens (or creates) the audit log at path for appending.
func OpenAuditLog(path string) (*FileAuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &FileAuditLog{
		path:   path,
		file:   f,
		logger: newAuditLogger(f),
	}, nil
}

func newAuditLogger(w io.Writer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel)
	// Write failures are swallowed: auditing is best-effort.
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard)))
}

// Path returns the file the log appends to.
func (a *FileAuditLog) Path() string {
	return a.path
}

// Record appends a line for ev.
func (a *FileAuditLog) Record(ev ChangeEvent) {
	a.logger.Info("cookie changed",
		zap.String("name", ev.Cookie.Name),
		zap.String("domain", ev.Cookie.Domain),
		zap.Bool("session", ev.Cookie.Session),
		zap.Bool("removed", ev.Removed),
		zap.String("cause", string(ev.Cause)),
	)
}

// Close flushes and closes the file.
func (a *FileAuditLog) Close() error {
	_ = a.logger.Sync()
	return a.file.Close()
}

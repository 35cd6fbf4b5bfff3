package main

import (
	"go.uber.org/zap"
)

// wailsLogger sends the Wails runtime's log output to zap.
type wailsLogger struct {
	log *zap.Logger
}

func newWailsLogger(log *zap.Logger) *wailsLogger {
	return &wailsLogger{log: log.Named("wails")}
}

func (l *wailsLogger) Print(message string)   { l.log.Info(message) }
func (l *wailsLogger) Trace(message string)   { l.log.Debug(message) }
func (l *wailsLogger) Debug(message string)   { l.log.Debug(message) }
func (l *wailsLogger) Info(message string)    { l.log.Info(message) }
func (l *wailsLogger) Warning(message string) { l.log.Warn(message) }
func (l *wailsLogger) Error(message string)   { l.log.Error(message) }

// Fatal is logged at error level; the runtime exits on its own.
func (l *wailsLogger) Fatal(message string) {
	l.log.Error(message, zap.Bool("fatal", true))
}

package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/Ahsanlashari87/messenger-mac/internal/desktop"
	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
)

func main() {
	// Detect development mode
	isDev := os.Getenv("WAILS_DEV") != "" || desktop.Version == "0.1.0-dev"

	log := logging.NewDefault()
	if isDev {
		log = logging.NewDevelopment()
	}
	defer func() { _ = log.Sync() }()

	app, err := NewApp(log)
	if err != nil {
		log.Fatal("failed to initialise app", zap.Error(err))
	}

	// Configure logger
	logLevel := logger.INFO
	if isDev {
		logLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:     "Messenger",
		Width:     1200,
		Height:    800,
		MinWidth:  400,
		MinHeight: 600,
		// The page is served by the proxy; there are no local assets.
		AssetServer: &assetserver.Options{
			Handler: app.proxy,
		},
		Menu:             app.buildMenu(),
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Logger:             newWailsLogger(log),
		LogLevel:           logLevel,
		LogLevelProduction: logger.ERROR,
		// Enable DevTools in development mode
		Debug: options.Debug{
			OpenInspectorOnStartup: isDev,
		},
	})

	if err != nil {
		log.Error("wails run failed", zap.Error(err))
	}
}

package app

import (
	"io"
	"log/slog"

	"github.com/vk/bridgerun/internal/transport"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Command echo and device replies go to outW; logs go to the
// logger's own writer.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	dialer transport.Dialer
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW, logW io.Writer, config *Config, dialer transport.Dialer) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		dialer: dialer,
	}
}

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/bridgerun/internal/ctxlog"
	"github.com/vk/bridgerun/internal/profile"
	"github.com/vk/bridgerun/internal/runner"
)

// Run executes one command script end to end. Every terminal failure (missing
// script, connection failure, EXPECT mismatch or invalid pattern) comes back
// as an error; the script file and the device connection are released on all
// paths.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	prof := profile.New()
	if a.config.ProfilePath != "" {
		var err error
		prof, err = profile.Load(ctx, a.config.ProfilePath)
		if err != nil {
			return err
		}
	}

	// Flag beats profile beats default.
	port := a.config.Port
	if port == "" {
		port = prof.Port
	}
	if port == "" {
		port = DefaultPort
	}
	baud := a.config.Baud
	if baud == 0 {
		baud = prof.Baud
	}
	if baud == 0 {
		baud = DefaultBaud
	}
	settle := a.config.Settle
	if settle == 0 {
		settle = prof.Settle
	}
	a.logger.Debug("Session settings resolved.", "port", port, "baud", baud, "settle", settle)

	src, err := os.Open(a.config.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to open command script %s: %w", a.config.ScriptPath, err)
	}
	defer src.Close()

	conn, err := a.dialer.Dial(ctx, port, baud)
	if err != nil {
		return fmt.Errorf("failed to connect to device on %s: %w", port, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			a.logger.Warn("Failed to close device connection.", "port", port, "error", closeErr)
		} else {
			a.logger.Debug("Connection closed.", "port", port)
		}
	}()
	a.logger.Info("Connected to device.", "port", port, "baud", baud)

	run := runner.New(conn, runner.Options{
		Out:         a.outW,
		Vars:        prof.Vars,
		Settle:      settle,
		DebugPrefix: prof.DebugPrefix,
	})
	if err := run.Run(ctx, src); err != nil {
		return err
	}

	a.logger.Info("Script completed.", "commands_executed", run.CommandsRun(), "lines_read", run.LinesRead())
	return nil
}

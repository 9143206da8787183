package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/bridgerun/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("bridgerun", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
BridgeRun - runs line-oriented command scripts against a serial device.

Usage:
  bridgerun [options] SCRIPT

Arguments:
  SCRIPT
    Path to a command script. Lines are sent to the device verbatim, except
    for '#' comments, NAME=VALUE variable assignments, and EXPECT directives
    that match the last device response against a regular expression.

Options:
`)
		flagSet.PrintDefaults()
	}

	portFlag := flagSet.String("port", "", "Serial port of the device. Default: /dev/ttyACM0.")
	pFlag := flagSet.String("p", "", "Serial port of the device (shorthand).")
	baudFlag := flagSet.Int("baud", 0, "Baud rate. Default: 9600.")
	bFlag := flagSet.Int("b", 0, "Baud rate (shorthand).")
	profileFlag := flagSet.String("profile", "", "Path to an HCL session profile file or directory.")
	settleFlag := flagSet.Duration("settle", 0, "Settling window after each sent command, e.g. 150ms. Default: 100ms.")
	verboseFlag := flagSet.Bool("v", false, "Enable verbose logging (shorthand for -log-level debug).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No script path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected exactly one script path"}
	}
	scriptPath := flagSet.Arg(0)
	slog.Debug("Script path determined.", "path", scriptPath)

	port := *portFlag
	if port == "" {
		port = *pFlag
	}
	baud := *baudFlag
	if baud == 0 {
		baud = *bFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *verboseFlag {
		logLevel = "debug"
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScriptPath:  scriptPath,
		ProfilePath: *profileFlag,
		Port:        port,
		Baud:        baud,
		Settle:      *settleFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

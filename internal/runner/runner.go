// Package runner executes bridgerun command scripts against an open device
// connection, strictly line by line: each line is fully handled (assigned,
// validated, or sent and drained) before the next one is read.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/vk/bridgerun/internal/ctxlog"
	"github.com/vk/bridgerun/internal/script"
	"github.com/vk/bridgerun/internal/transport"
)

const (
	// DefaultSettle is the pause after each sent command before the receive
	// buffer is drained, giving the device time to reply.
	DefaultSettle = 100 * time.Millisecond

	// DefaultDebugPrefix marks device reply lines that are diagnostics, not
	// responses. They go to the debug log and never become the retained
	// response.
	DefaultDebugPrefix = "[DBG]"
)

// Options configures a Runner. The zero value works: output to stdout, an
// empty variable store, and the default settle window and debug prefix.
type Options struct {
	Out         io.Writer
	Vars        *script.Vars
	Settle      time.Duration
	DebugPrefix string
}

// Runner holds the per-run interpreter state. One Runner drives one script
// over one connection; it is not reused.
type Runner struct {
	transport   transport.Transport
	out         io.Writer
	vars        *script.Vars
	settle      time.Duration
	debugPrefix string

	lastResponse string
	linesRead    int
	commandsRun  int
}

// New returns a Runner that sends commands over t.
func New(t transport.Transport, opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	vars := opts.Vars
	if vars == nil {
		vars = script.NewVars()
	}
	settle := opts.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	debugPrefix := opts.DebugPrefix
	if debugPrefix == "" {
		debugPrefix = DefaultDebugPrefix
	}

	return &Runner{
		transport:   t,
		out:         out,
		vars:        vars,
		settle:      settle,
		debugPrefix: debugPrefix,
	}
}

// CommandsRun returns the number of device commands sent so far.
func (r *Runner) CommandsRun() int { return r.commandsRun }

// LinesRead returns the number of script lines consumed so far.
func (r *Runner) LinesRead() int { return r.linesRead }

// Run reads the script from src and executes it to completion. The first
// failing line ends the run: an invalid or unmatched EXPECT pattern, a
// transport failure, or a script read error. Blank and comment-only lines
// advance the line counter and nothing else.
func (r *Runner) Run(ctx context.Context, src io.Reader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Script execution started.")

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		r.linesRead++
		line := script.Split(scanner.Text(), r.linesRead)

		if line.Comment != "" {
			logger.Debug("Script line.", "line", line.Number, "command", line.Command, "comment", line.Comment)
		} else if !line.IsBlank() {
			logger.Debug("Script line.", "line", line.Number, "command", line.Command)
		}

		if line.IsBlank() {
			continue
		}
		if err := r.dispatch(ctx, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	logger.Debug("Script execution completed.", "commands_executed", r.commandsRun, "lines_read", r.linesRead)
	return nil
}

// dispatch routes one non-blank command line. Assignment is checked first:
// any command containing '=' is consumed as an assignment, so a literal
// device command with '=' in it cannot be expressed.
func (r *Runner) dispatch(ctx context.Context, line script.Line) error {
	if name, value, ok := script.ParseAssignment(line.Command); ok {
		ctxlog.FromContext(ctx).Debug("Variable assigned.", "line", line.Number, "name", name, "value", value)
		r.vars.Set(name, value)
		return nil
	}
	if pattern, ok := script.ExpectPattern(line.Command); ok {
		return r.expect(ctx, line.Number, pattern)
	}
	return r.send(ctx, r.vars.Expand(line.Command))
}

// expect matches the retained response against the directive's pattern. The
// pattern is variable-substituted, then compiled as written and required to
// match at position 0 of the response; it need not consume all of it.
func (r *Runner) expect(ctx context.Context, lineNumber int, rawPattern string) error {
	pattern := r.vars.Expand(rawPattern)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return &PatternError{Line: lineNumber, Pattern: pattern, Err: err}
	}

	loc := re.FindStringIndex(r.lastResponse)
	if loc == nil || loc[0] != 0 {
		return &MismatchError{Line: lineNumber, Pattern: pattern, Response: r.lastResponse}
	}

	fmt.Fprintf(r.out, "---> EXPECT \"%s\" ✓\n", pattern)
	return nil
}

// send writes one newline-terminated command, waits out the settle window,
// then drains every line already waiting. Debug-prefixed lines are logged
// and skipped; each other non-empty line is echoed and becomes the retained
// response, so the last one read wins. An empty drain window leaves the
// retained response cleared.
func (r *Runner) send(ctx context.Context, command string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sending command.", "command", command)

	fmt.Fprintf(r.out, "---> %s\n", command)
	if _, err := r.transport.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("failed to write command to device: %w", err)
	}
	r.commandsRun++
	r.lastResponse = ""

	time.Sleep(r.settle)

	for {
		reply, ok, err := r.transport.ReadAvailableLine()
		if err != nil {
			return fmt.Errorf("failed to read device response: %w", err)
		}
		if !ok {
			break
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			continue
		}
		if strings.HasPrefix(reply, r.debugPrefix) {
			logger.Debug("Device debug output.", "response", reply)
			continue
		}
		fmt.Fprintf(r.out, "<--- %s\n", reply)
		r.lastResponse = reply
	}
	return nil
}

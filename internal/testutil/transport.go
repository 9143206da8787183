// Package testutil provides shared helpers for package and integration
// tests: a thread-safe output buffer and an in-memory scripted device.
package testutil

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/vk/bridgerun/internal/transport"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// ScriptedTransport is an in-memory device. Each written command queues the
// reply lines scripted for it; polling pops them one at a time, like a
// serial receive buffer being drained.
type ScriptedTransport struct {
	// Replies maps a command (without its newline) to the lines the device
	// sends back.
	Replies map[string][]string

	// WriteErr and ReadErr, when set, fail the corresponding operation.
	WriteErr error
	ReadErr  error

	// Writes records every command line written, newline stripped.
	Writes []string

	// CloseCount counts Close calls, so tests can assert the connection is
	// released exactly once.
	CloseCount int

	pending []string
}

// Write implements transport.Transport.
func (t *ScriptedTransport) Write(p []byte) (int, error) {
	if t.WriteErr != nil {
		return 0, t.WriteErr
	}
	command := strings.TrimSuffix(string(p), "\n")
	t.Writes = append(t.Writes, command)
	t.pending = append(t.pending, t.Replies[command]...)
	return len(p), nil
}

// ReadAvailableLine implements transport.Transport.
func (t *ScriptedTransport) ReadAvailableLine() (string, bool, error) {
	if t.ReadErr != nil {
		return "", false, t.ReadErr
	}
	if len(t.pending) == 0 {
		return "", false, nil
	}
	line := t.pending[0]
	t.pending = t.pending[1:]
	return line, true, nil
}

// Close implements transport.Transport.
func (t *ScriptedTransport) Close() error {
	t.CloseCount++
	return nil
}

// ScriptedDialer hands out a prepared ScriptedTransport and records what it
// was asked to dial.
type ScriptedDialer struct {
	Transport *ScriptedTransport
	DialErr   error

	DialedPort string
	DialedBaud int
}

// Dial implements transport.Dialer.
func (d *ScriptedDialer) Dial(_ context.Context, port string, baud int) (transport.Transport, error) {
	d.DialedPort = port
	d.DialedBaud = baud
	if d.DialErr != nil {
		return nil, d.DialErr
	}
	return d.Transport, nil
}

package transport

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/vk/bridgerun/internal/ctxlog"
)

const (
	// defaultResetGrace covers boards that reboot when the host opens the
	// port (Arduinos reset on the DTR toggle).
	defaultResetGrace = 250 * time.Millisecond

	// defaultPollTimeout bounds a single poll read. A zero-byte read within
	// this window means the receive buffer is empty.
	defaultPollTimeout = 50 * time.Millisecond
)

// SerialDialer opens real serial ports. The zero value is ready to use.
type SerialDialer struct {
	// ResetGrace overrides the pause after opening the port. Zero means the
	// default; negative disables the pause entirely.
	ResetGrace time.Duration

	// PollTimeout overrides the per-poll read timeout. Zero means the default.
	PollTimeout time.Duration
}

// Dial opens the named port at the given baud rate (8N1) and waits out the
// reset grace before handing the connection to the caller.
func (d *SerialDialer) Dial(ctx context.Context, port string, baud int) (Transport, error) {
	logger := ctxlog.FromContext(ctx)

	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}

	pollTimeout := d.PollTimeout
	if pollTimeout == 0 {
		pollTimeout = defaultPollTimeout
	}
	if err := p.SetReadTimeout(pollTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", port, err)
	}

	grace := d.ResetGrace
	if grace == 0 {
		grace = defaultResetGrace
	}
	if grace > 0 {
		logger.Debug("Waiting for device reset grace.", "port", port, "grace", grace)
		time.Sleep(grace)
	}

	logger.Debug("Serial port opened.", "port", port, "baud", baud)
	return &serialTransport{port: p}, nil
}

// serialTransport adapts a serial.Port to the Transport interface. It keeps
// a carry-over buffer so that a partial line read during one poll is
// completed by a later one instead of being lost.
type serialTransport struct {
	port serial.Port
	buf  []byte
}

func (t *serialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *serialTransport) ReadAvailableLine() (string, bool, error) {
	chunk := make([]byte, 256)
	for {
		if i := bytes.IndexByte(t.buf, '\n'); i >= 0 {
			line := t.buf[:i]
			t.buf = append(t.buf[:0:0], t.buf[i+1:]...)
			return string(bytes.TrimSuffix(line, []byte("\r"))), true, nil
		}

		n, err := t.port.Read(chunk)
		if err != nil {
			return "", false, fmt.Errorf("serial read failed: %w", err)
		}
		if n == 0 {
			// Read timeout: nothing more is waiting. Any partial line stays
			// buffered until the device finishes it.
			return "", false, nil
		}
		t.buf = append(t.buf, chunk[:n]...)
	}
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}

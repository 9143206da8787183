// Package transport abstracts the serial connection to the device. The
// runner only needs three things: write raw bytes, poll for a line that has
// already arrived, and close the port. The concrete implementation lives in
// serial.go; tests substitute their own.
package transport

import (
	"context"
	"io"
)

// Transport is a single open connection to the device.
type Transport interface {
	io.Writer

	// ReadAvailableLine returns the next complete line already waiting in
	// the receive buffer, without its line terminator. ok is false when no
	// complete line is available right now; this is a poll, not a blocking
	// read. A non-nil error is a connection failure and is fatal to the run.
	ReadAvailableLine() (line string, ok bool, err error)

	Close() error
}

// Dialer opens the connection to a device. The app holds a Dialer rather
// than a Transport so that integration tests can run entire scripts against
// an in-memory device.
type Dialer interface {
	Dial(ctx context.Context, port string, baud int) (Transport, error)
}

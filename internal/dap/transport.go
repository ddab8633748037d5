/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/go-dap"
)

// ErrTransportClosed is returned when reading from or writing to a closed transport.
var ErrTransportClosed = errors.New("transport is closed")

// Transport moves complete DAP message payloads to and from the client.
// Framing (the Content-Length header) is handled by the transport; payloads are undecoded JSON documents.
type Transport interface {
	// ReadPayload blocks until the next complete message is available and returns its content.
	// Returns io.EOF (possibly wrapped) when the client closes the stream between messages.
	ReadPayload() ([]byte, error)

	// WritePayload frames and writes one complete message.
	WritePayload(payload []byte) error

	// Close closes the transport, releasing any associated resources.
	Close() error
}

// streamTransport implements Transport over a pair of streams, typically stdin and stdout.
type streamTransport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	in     io.ReadCloser
	out    io.WriteCloser

	// writeMu protects concurrent writes
	writeMu sync.Mutex

	// closed indicates whether the transport has been closed
	closed bool
	mu     sync.Mutex
}

// NewStdioTransport creates a new Transport backed by input and output streams.
func NewStdioTransport(in io.ReadCloser, out io.WriteCloser) Transport {
	return &streamTransport{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		in:     in,
		out:    out,
	}
}

func (t *streamTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *streamTransport) ReadPayload() ([]byte, error) {
	if t.isClosed() {
		return nil, ErrTransportClosed
	}

	payload, readErr := dap.ReadBaseMessage(t.reader)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read DAP message: %w", readErr)
	}

	return payload, nil
}

func (t *streamTransport) WritePayload(payload []byte) error {
	if t.isClosed() {
		return ErrTransportClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if writeErr := dap.WriteBaseMessage(t.writer, payload); writeErr != nil {
		return fmt.Errorf("failed to write DAP message: %w", writeErr)
	}

	if flushErr := t.writer.Flush(); flushErr != nil {
		return fmt.Errorf("failed to flush DAP message: %w", flushErr)
	}

	return nil
}

func (t *streamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	return errors.Join(t.in.Close(), t.out.Close())
}

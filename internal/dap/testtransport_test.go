/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/dsadapter/pkg/process"
	"github.com/microsoft/dsadapter/pkg/testutil"
)

// memoryTransport is an in-memory Transport that serves a fixed list of inbound payloads
// and records every payload written to it.
type memoryTransport struct {
	mu       sync.Mutex
	inbound  [][]byte
	written  [][]byte
	writeErr error
	closed   bool
}

func newMemoryTransport(inbound ...string) *memoryTransport {
	mt := &memoryTransport{}
	for _, p := range inbound {
		mt.inbound = append(mt.inbound, []byte(p))
	}
	return mt
}

func (mt *memoryTransport) ReadPayload() ([]byte, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.closed {
		return nil, ErrTransportClosed
	}
	if len(mt.inbound) == 0 {
		return nil, io.EOF
	}

	next := mt.inbound[0]
	mt.inbound = mt.inbound[1:]
	return next, nil
}

func (mt *memoryTransport) WritePayload(payload []byte) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.writeErr != nil {
		return mt.writeErr
	}
	mt.written = append(mt.written, append([]byte(nil), payload...))
	return nil
}

func (mt *memoryTransport) Close() error {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.closed = true
	return nil
}

// outgoing is the decoded form of any message the adapter writes.
type outgoing struct {
	Seq        int             `json:"seq"`
	Type       string          `json:"type"`
	RequestSeq int             `json:"request_seq"`
	Command    string          `json:"command"`
	Success    bool            `json:"success"`
	Message    *string         `json:"message"`
	Event      string          `json:"event"`
	Body       json.RawMessage `json:"body"`
}

func (mt *memoryTransport) messages(t *testing.T) []outgoing {
	t.Helper()
	mt.mu.Lock()
	defer mt.mu.Unlock()

	result := make([]outgoing, 0, len(mt.written))
	for _, payload := range mt.written {
		var msg outgoing
		require.NoError(t, json.Unmarshal(payload, &msg), "adapter wrote invalid JSON: %s", string(payload))
		result = append(result, msg)
	}
	return result
}

func (mt *memoryTransport) reset() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.written = nil
}

func newTestSession(t *testing.T, transport Transport, debuggeeExe string) *Session {
	t.Helper()
	log := testutil.NewLogForTesting(t.Name())
	s, err := NewSession(transport, process.NewOSSupervisor(log), SessionConfig{DebuggeeExe: debuggeeExe}, log)
	require.NoError(t, err)
	return s
}

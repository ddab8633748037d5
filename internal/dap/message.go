/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"

	"github.com/google/go-dap"
)

const (
	requestMessageType  = "request"
	responseMessageType = "response"
	eventMessageType    = "event"
)

// requestMessage is a request whose arguments are decoded later, by the command handler.
type requestMessage struct {
	dap.Request
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// responseMessage carries an optional body. The body is omitted for failed requests
// and for commands that produce no result.
type responseMessage struct {
	dap.Response
	Body any `json:"body,omitempty"`
}

type eventMessage struct {
	dap.Event
	Body any `json:"body,omitempty"`
}

// sequenceCounter numbers outgoing messages. It is used only by the session's message loop.
// The counter starts at 0 and is incremented before use; it wraps around on overflow.
type sequenceCounter struct {
	seq int
}

// Next returns the next sequence number.
func (c *sequenceCounter) Next() int {
	c.seq++ // Signed integer overflow wraps in Go.
	return c.seq
}

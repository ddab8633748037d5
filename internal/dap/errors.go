/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"errors"
)

var (
	// ErrMalformedMessage is returned when an incoming payload is not a valid DAP message.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnsupportedMessageType is returned when an incoming message is not a request.
	ErrUnsupportedMessageType = errors.New("unsupported message type")

	// ErrUnknownCommand is returned for requests that have no registered handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand is returned when two handlers are registered for the same command.
	ErrDuplicateCommand = errors.New("duplicate command handler")

	// ErrMissingDmb is returned when launch arguments do not name the .dmb file to run.
	ErrMissingDmb = errors.New("launch arguments must specify the `dmb` file to run")

	// ErrTransportFailed wraps failures to write to the client. These end the session.
	ErrTransportFailed = errors.New("transport failure")

	// ErrInvalidConfig is returned when the session configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid session configuration")
)

// IsEnvelopeError returns true if the error indicates that an incoming message could not be
// interpreted as a request. Such errors cannot be answered because there is no request to correlate with.
func IsEnvelopeError(err error) bool {
	return errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, ErrUnsupportedMessageType)
}

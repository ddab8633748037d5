/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-dap"

	"github.com/microsoft/dsadapter/pkg/process"
)

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateInitialized
)

func (st sessionState) String() string {
	switch st {
	case stateUninitialized:
		return "uninitialized"
	case stateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// SessionConfig holds the settings of a debug session.
type SessionConfig struct {
	// Path to the DreamSeeker executable started by the launch command.
	DebuggeeExe string

	// If set, a message that is not a valid request is logged and skipped.
	// Otherwise such messages end the session.
	SkipMalformedMessages bool
}

func (c SessionConfig) Validate() error {
	if strings.TrimSpace(c.DebuggeeExe) == "" {
		return fmt.Errorf("%w: the debuggee executable path must not be empty", ErrInvalidConfig)
	}
	return nil
}

// Session is a single debug adapter session with one client.
// It is not safe for concurrent use; the message loop handles one request at a time.
type Session struct {
	transport  Transport
	supervisor process.Supervisor
	config     SessionConfig
	registry   *commandRegistry
	log        logr.Logger

	seq        sequenceCounter
	state      sessionState
	clientCaps ClientCapabilities

	// The tracked debuggee, if any. Owned exclusively by the session until disconnect hands it off.
	debuggee *process.Debuggee
}

func NewSession(transport Transport, supervisor process.Supervisor, config SessionConfig, log logr.Logger) (*Session, error) {
	if configErr := config.Validate(); configErr != nil {
		return nil, configErr
	}

	registry, registryErr := newCommandRegistry(sessionCommands()...)
	if registryErr != nil {
		return nil, registryErr
	}

	return &Session{
		transport:  transport,
		supervisor: supervisor,
		config:     config,
		registry:   registry,
		log:        log.WithName("session"),
		state:      stateUninitialized,
	}, nil
}

// ClientCapabilities returns the capabilities negotiated by the most recent initialize request.
func (s *Session) ClientCapabilities() ClientCapabilities {
	return s.clientCaps
}

// Serve reads and handles messages until the client closes the transport, a transport error occurs,
// a message is not a valid request, or the context is cancelled. A clean end of input is not an error.
func (s *Session) Serve(ctx context.Context) error {
	stopCloser := context.AfterFunc(ctx, func() {
		_ = s.transport.Close()
	})
	defer stopCloser()

	s.log.V(1).Info("Serving debug adapter session", "Commands", s.registry.Commands())

	for {
		payload, readErr := s.transport.ReadPayload()
		if readErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(readErr, io.EOF) {
				s.log.Info("Client closed the connection")
				s.logOutstandingDebuggee()
				return nil
			}
			return readErr
		}

		handleErr := s.HandleMessage(payload)
		if handleErr == nil {
			continue
		}

		if IsEnvelopeError(handleErr) && s.config.SkipMalformedMessages {
			s.log.Error(handleErr, "Ignoring message that is not a valid request")
			continue
		}

		return handleErr
	}
}

// HandleMessage decodes one complete message payload and handles it.
// Errors returned are either envelope errors (the payload is not a request) or transport errors.
// Request failures are reported to the client and do not produce an error.
func (s *Session) HandleMessage(payload []byte) error {
	req, decodeErr := decodeRequest(payload)
	if decodeErr != nil {
		return decodeErr
	}

	return s.handleRequest(req)
}

func (s *Session) handleRequest(req *requestMessage) error {
	log := s.log.WithValues("Command", req.Command, "RequestSeq", req.Seq)
	log.V(1).Info("Handling request")

	body, handleErr := s.dispatch(req)
	if errors.Is(handleErr, ErrTransportFailed) {
		return handleErr
	}

	// The response sequence number is allocated only now, after any events emitted by the handler.
	resp := &responseMessage{
		Response: dap.Response{
			ProtocolMessage: dap.ProtocolMessage{
				Seq:  s.seq.Next(),
				Type: responseMessageType,
			},
			RequestSeq: req.Seq,
			Command:    req.Command,
			Success:    handleErr == nil,
		},
	}

	if handleErr != nil {
		log.Info("Request failed", "Error", handleErr.Error())
		resp.Message = handleErr.Error()
	} else {
		resp.Body = body
	}

	return s.send(resp)
}

func (s *Session) dispatch(req *requestMessage) (any, error) {
	handler, lookupErr := s.registry.lookup(req.Command)
	if lookupErr != nil {
		return nil, lookupErr
	}

	return handler.Handle(s, req.Arguments)
}

// emitEvent writes an event right away, ahead of the response to the request being handled.
func (s *Session) emitEvent(name string, body any) error {
	msg := &eventMessage{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{
				Seq:  s.seq.Next(),
				Type: eventMessageType,
			},
			Event: name,
		},
		Body: body,
	}

	return s.send(msg)
}

func (s *Session) send(msg dap.Message) error {
	payload, encodeErr := json.Marshal(msg)
	if encodeErr != nil {
		return fmt.Errorf("%w: could not encode message %d: %w", ErrTransportFailed, msg.GetSeq(), encodeErr)
	}

	if writeErr := s.transport.WritePayload(payload); writeErr != nil {
		return fmt.Errorf("%w: %w", ErrTransportFailed, writeErr)
	}

	return nil
}

func (s *Session) logOutstandingDebuggee() {
	if s.debuggee != nil {
		s.log.Info("Session ended while the debuggee is still running; leaving it running", "PID", s.debuggee.Handle().Pid)
	}
}

/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// commandHandler decodes the arguments of a single DAP command and executes it against a session.
type commandHandler interface {
	// Command returns the DAP command name the handler serves.
	Command() string

	// Handle decodes the raw request arguments and invokes the command.
	// It returns the response body (nil if the command produces none) or an error.
	Handle(s *Session, rawArgs json.RawMessage) (any, error)
}

// typedCommand adapts a function that takes command-specific parameters to the commandHandler interface.
type typedCommand[P any] struct {
	command string
	invoke  func(s *Session, params P) (any, error)
}

func newCommand[P any](command string, invoke func(s *Session, params P) (any, error)) commandHandler {
	return &typedCommand[P]{
		command: command,
		invoke:  invoke,
	}
}

func (c *typedCommand[P]) Command() string {
	return c.command
}

func (c *typedCommand[P]) Handle(s *Session, rawArgs json.RawMessage) (any, error) {
	var params P

	// Missing or null arguments leave every parameter at its default.
	trimmed := bytes.TrimSpace(rawArgs)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &params); err != nil {
			return nil, fmt.Errorf("could not decode arguments of the `%s` command: %w", c.command, err)
		}
	}

	return c.invoke(s, params)
}

// commandRegistry maps command names to handlers. It is built once and not modified afterwards.
type commandRegistry struct {
	handlers map[string]commandHandler
}

func newCommandRegistry(handlers ...commandHandler) (*commandRegistry, error) {
	r := &commandRegistry{
		handlers: make(map[string]commandHandler, len(handlers)),
	}

	for _, h := range handlers {
		name := h.Command()
		if _, found := r.handlers[name]; found {
			return nil, fmt.Errorf("%w: `%s`", ErrDuplicateCommand, name)
		}
		r.handlers[name] = h
	}

	return r, nil
}

func (r *commandRegistry) lookup(command string) (commandHandler, error) {
	h, found := r.handlers[command]
	if !found {
		return nil, fmt.Errorf("%w `%s`", ErrUnknownCommand, command)
	}
	return h, nil
}

// Commands returns the registered command names in sorted order.
func (r *commandRegistry) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

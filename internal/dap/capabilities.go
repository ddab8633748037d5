/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"github.com/google/go-dap"

	"github.com/microsoft/dsadapter/pkg/pointers"
)

// ClientCapabilities are the client features negotiated during initialize.
type ClientCapabilities struct {
	LinesStartAt1                bool
	ColumnsStartAt1              bool
	SupportsVariableType         bool
	SupportsVariablePaging       bool
	SupportsRunInTerminalRequest bool
	SupportsMemoryReferences     bool
}

// InitializeArguments are the arguments of the initialize request.
// The negotiation flags are pointers so that absent flags can be told apart from false;
// absent flags take their value from clientCapabilityDefaults.
type InitializeArguments struct {
	ClientID   string `json:"clientID,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	AdapterID  string `json:"adapterID,omitempty"`
	Locale     string `json:"locale,omitempty"`
	PathFormat string `json:"pathFormat,omitempty"`

	LinesStartAt1                *bool `json:"linesStartAt1,omitempty"`
	ColumnsStartAt1              *bool `json:"columnsStartAt1,omitempty"`
	SupportsVariableType         *bool `json:"supportsVariableType,omitempty"`
	SupportsVariablePaging       *bool `json:"supportsVariablePaging,omitempty"`
	SupportsRunInTerminalRequest *bool `json:"supportsRunInTerminalRequest,omitempty"`
	SupportsMemoryReferences     *bool `json:"supportsMemoryReferences,omitempty"`
}

// capabilityFlag describes one negotiated flag: its protocol name, its default,
// where it is found in the request and where it is stored in ClientCapabilities.
type capabilityFlag struct {
	name         string
	defaultValue bool
	requested    func(*InitializeArguments) *bool
	negotiated   func(*ClientCapabilities) *bool
}

var clientCapabilityDefaults = []capabilityFlag{
	{
		name:         "linesStartAt1",
		defaultValue: true,
		requested:    func(a *InitializeArguments) *bool { return a.LinesStartAt1 },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.LinesStartAt1 },
	},
	{
		name:         "columnsStartAt1",
		defaultValue: true,
		requested:    func(a *InitializeArguments) *bool { return a.ColumnsStartAt1 },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.ColumnsStartAt1 },
	},
	{
		name:         "supportsVariableType",
		defaultValue: false,
		requested:    func(a *InitializeArguments) *bool { return a.SupportsVariableType },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.SupportsVariableType },
	},
	{
		name:         "supportsVariablePaging",
		defaultValue: false,
		requested:    func(a *InitializeArguments) *bool { return a.SupportsVariablePaging },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.SupportsVariablePaging },
	},
	{
		name:         "supportsRunInTerminalRequest",
		defaultValue: false,
		requested:    func(a *InitializeArguments) *bool { return a.SupportsRunInTerminalRequest },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.SupportsRunInTerminalRequest },
	},
	{
		name:         "supportsMemoryReferences",
		defaultValue: false,
		requested:    func(a *InitializeArguments) *bool { return a.SupportsMemoryReferences },
		negotiated:   func(c *ClientCapabilities) *bool { return &c.SupportsMemoryReferences },
	},
}

// NegotiateClientCapabilities computes the client capabilities from initialize arguments.
// Every flag is computed, so the result never depends on an earlier negotiation.
func NegotiateClientCapabilities(args InitializeArguments) ClientCapabilities {
	var caps ClientCapabilities
	for _, flag := range clientCapabilityDefaults {
		*flag.negotiated(&caps) = pointers.GetValueOrDefault(flag.requested(&args), flag.defaultValue)
	}
	return caps
}

// logValues returns the capabilities as alternating name/value pairs suitable for structured logging.
func (c ClientCapabilities) logValues() []any {
	values := make([]any, 0, 2*len(clientCapabilityDefaults))
	for _, flag := range clientCapabilityDefaults {
		values = append(values, flag.name, *flag.negotiated(&c))
	}
	return values
}

// adapterCapabilities returns what this adapter supports. The result does not depend on the client.
func adapterCapabilities() dap.Capabilities {
	return dap.Capabilities{
		SupportTerminateDebuggee: true,
	}
}

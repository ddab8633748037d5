/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"fmt"

	"github.com/google/go-dap"

	"github.com/microsoft/dsadapter/pkg/pointers"
)

const (
	initializeCommand = "initialize"
	launchCommand     = "launch"
	disconnectCommand = "disconnect"

	exitedEvent     = "exited"
	terminatedEvent = "terminated"

	// TrustedFlag is appended to the DreamSeeker command line so the game runs without a trust prompt.
	TrustedFlag = "-trusted"

	// Attach mode would want false here, but only launch is supported.
	defaultTerminateDebuggee = true
)

// LaunchArguments are the arguments of the launch request sent by the editor extension.
// Other keys the extension sends (name, type, request, preLaunchTask, __sessionId) are ignored.
type LaunchArguments struct {
	// Accepted for protocol compatibility. The debuggee is started the same way either way.
	NoDebug *bool `json:"noDebug,omitempty"`

	// Path to the compiled .dmb file DreamSeeker should run.
	Dmb string `json:"dmb"`
}

// DisconnectArguments are the arguments of the disconnect request.
type DisconnectArguments struct {
	Restart           bool  `json:"restart,omitempty"`
	TerminateDebuggee *bool `json:"terminateDebuggee,omitempty"`
	SuspendDebuggee   bool  `json:"suspendDebuggee,omitempty"`
}

func sessionCommands() []commandHandler {
	return []commandHandler{
		newCommand(initializeCommand, (*Session).onInitialize),
		newCommand(launchCommand, (*Session).onLaunch),
		newCommand(disconnectCommand, (*Session).onDisconnect),
	}
}

func (s *Session) onInitialize(args InitializeArguments) (any, error) {
	s.clientCaps = NegotiateClientCapabilities(args)
	s.state = stateInitialized

	s.log.Info("Client initialized",
		append([]any{
			"ClientID", args.ClientID,
			"ClientName", args.ClientName,
			"AdapterID", args.AdapterID,
			"Locale", args.Locale,
			"PathFormat", args.PathFormat,
		}, s.clientCaps.logValues()...)...,
	)

	return adapterCapabilities(), nil
}

func (s *Session) onLaunch(args LaunchArguments) (any, error) {
	if args.Dmb == "" {
		return nil, ErrMissingDmb
	}
	if s.state != stateInitialized {
		s.log.V(1).Info("Launch requested before initialize")
	}

	debuggee, spawnErr := s.supervisor.Spawn(s.config.DebuggeeExe, args.Dmb, TrustedFlag)
	if spawnErr != nil {
		return nil, spawnErr
	}

	if s.debuggee != nil {
		// The previous debuggee keeps running, but the session no longer tracks it.
		s.log.Info("Replacing tracked debuggee; the previous process is left running", "PreviousPID", s.debuggee.Handle().Pid)
	}

	s.debuggee = debuggee
	s.log.Info("Debuggee launched",
		"Dmb", args.Dmb,
		"NoDebug", pointers.GetValueOrDefault(args.NoDebug, false),
		"PID", debuggee.Handle().Pid)

	return nil, nil
}

func (s *Session) onDisconnect(args DisconnectArguments) (any, error) {
	terminate := pointers.GetValueOrDefault(args.TerminateDebuggee, defaultTerminateDebuggee)

	debuggee := s.debuggee
	if debuggee == nil {
		s.log.V(1).Info("Disconnect requested, no debuggee is running")
		return nil, nil
	}

	// The session gives up ownership before anything else happens to the process,
	// so it never touches a handle that the stopping path or the reaper owns.
	s.debuggee = nil

	if terminate {
		exitCode, stopErr := s.supervisor.Terminate(debuggee)
		if stopErr != nil {
			return nil, fmt.Errorf("could not terminate the debuggee: %w", stopErr)
		}

		s.log.Info("Debuggee terminated", "ExitCode", exitCode)
		return nil, s.emitEvent(exitedEvent, dap.ExitedEventBody{ExitCode: int(exitCode)})
	}

	s.supervisor.Detach(debuggee)
	s.log.Info("Detached from debuggee", "PID", debuggee.Handle().Pid)
	return nil, s.emitEvent(terminatedEvent, dap.TerminatedEventBody{})
}

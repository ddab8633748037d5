/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package process

import (
	"errors"
	"time"
)

type Pid_t int64

const (
	// A valid exit code of a process is a non-negative number.
	// UnknownExitCode is reported when the exit code could not be determined, e.g. the process was killed by a signal.
	UnknownExitCode int32 = -1

	UnknownPID Pid_t = -1
)

var (
	// Essentially the same as ps.ErrorProcessNotRunning, but we do not want to
	// expose the ps package outside of this package.
	ErrProcessNotFound = errors.New("process does not exist")
)

// Supervisor owns the lifecycle mechanics of debuggee processes.
type Supervisor interface {
	// Starts the executable with the given arguments. Standard input, output and error are not inherited.
	Spawn(exe string, args ...string) (*Debuggee, error)

	// Kills the debuggee and blocks until it exits, returning its exit code.
	// The exit code is UnknownExitCode if the process was terminated by a signal.
	Terminate(d *Debuggee) (int32, error)

	// Hands the debuggee over to a background reaper that waits for its natural exit and discards the result.
	// Never blocks. The caller must not use the Debuggee afterwards.
	Detach(d *Debuggee)
}

// ProcessHandle is a compound type representing a reference to a process.
// It holds the process ID and its identity time (used to distinguish between
// different instances of processes with the same PID after PID reuse).
//
// ProcessHandle is a value type and is safe to use as a map key.
type ProcessHandle struct {
	Pid          Pid_t
	IdentityTime time.Time
}

func NewProcessHandle(pid Pid_t, identityTime time.Time) ProcessHandle {
	return ProcessHandle{
		Pid:          pid,
		IdentityTime: identityTime,
	}
}

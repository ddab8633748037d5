/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package process

import (
	"os/exec"
	"sync"

	"github.com/go-logr/logr"

	"github.com/microsoft/dsadapter/pkg/resiliency"
)

// Debuggee is the handle to a running debuggee process.
// A Debuggee has exactly one owner at a time: the debug session, the stopping code path, or the detached reaper.
type Debuggee struct {
	cmd    *exec.Cmd
	handle ProcessHandle

	waitOnce sync.Once
	exited   chan struct{}

	// Valid only after exited is closed.
	exitCode int32
	waitErr  error
}

func newDebuggee(cmd *exec.Cmd, handle ProcessHandle) *Debuggee {
	return &Debuggee{
		cmd:      cmd,
		handle:   handle,
		exited:   make(chan struct{}),
		exitCode: UnknownExitCode,
	}
}

func (d *Debuggee) Handle() ProcessHandle {
	return d.handle
}

func (d *Debuggee) String() string {
	return d.cmd.String()
}

// Starts (at most once) the goroutine that waits for the process to exit.
// Returns a channel that is closed when the process has exited and the exit status has been captured.
func (d *Debuggee) startWaiting(log logr.Logger) <-chan struct{} {
	d.waitOnce.Do(func() {
		go func() {
			defer close(d.exited)
			defer func() {
				if panicErr := resiliency.MakePanicError(recover(), log); panicErr != nil {
					d.exitCode, d.waitErr = UnknownExitCode, panicErr
				}
			}()

			waitErr := d.cmd.Wait()
			d.exitCode, d.waitErr = getProcessExecResult(waitErr, d.cmd)
		}()
	})

	return d.exited
}

// Returns the exit code and wait error. Must only be called after the exited channel was closed.
func (d *Debuggee) exitResult() (int32, error) {
	return d.exitCode, d.waitErr
}

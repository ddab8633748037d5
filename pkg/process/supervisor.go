/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/go-logr/logr"

	"github.com/microsoft/dsadapter/pkg/resiliency"
)

type OSSupervisor struct {
	log logr.Logger
}

// Creates a supervisor that manages operating system processes.
func NewOSSupervisor(log logr.Logger) *OSSupervisor {
	return &OSSupervisor{
		log: log.WithName("supervisor"),
	}
}

func (s *OSSupervisor) Spawn(exe string, args ...string) (*Debuggee, error) {
	cmd := exec.Command(exe, args...)
	// Stdin, Stdout and Stderr are left nil, so they are connected to the null device.
	// The adapter's own stdio carries the protocol stream and must not be shared.

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start debuggee '%s': %w", exe, err)
	}

	pid := Uint32_ToPidT(uint32(cmd.Process.Pid))
	d := newDebuggee(cmd, NewProcessHandle(pid, ProcessIdentityTime(pid)))

	s.log.Info("Debuggee process started", "Cmd", cmd.String(), "PID", pid)
	return d, nil
}

func (s *OSSupervisor) Terminate(d *Debuggee) (int32, error) {
	log := s.log.WithValues("PID", d.handle.Pid)

	// Capture the descendants before the root goes away; once it exits they get re-parented.
	tree, treeErr := GetProcessTree(d.handle)
	if treeErr != nil {
		log.V(1).Info("Could not determine debuggee process tree", "Error", treeErr.Error())
	}

	exited := d.startWaiting(log)

	if stopErr := s.stopRoot(d, exited, log); stopErr != nil {
		// The process might still be around. Keep reaping it in the background so that it does not become a zombie.
		s.Detach(d)
		return UnknownExitCode, stopErr
	}

	if len(tree) > 1 {
		s.stopDescendants(tree[1:], log)
	}

	exitCode, waitErr := d.exitResult()
	if waitErr != nil {
		return UnknownExitCode, fmt.Errorf("could not determine exit status of debuggee process %d: %w", d.handle.Pid, waitErr)
	}

	log.V(1).Info("Debuggee process stopped", "ExitCode", exitCode)
	return exitCode, nil
}

func (s *OSSupervisor) Detach(d *Debuggee) {
	log := s.log.WithValues("PID", d.handle.Pid)
	exited := d.startWaiting(log)

	go func() {
		defer func() {
			_ = resiliency.MakePanicError(recover(), log)
		}()

		<-exited
		exitCode, waitErr := d.exitResult()
		log.V(1).Info("Detached debuggee process exited", "ExitCode", exitCode, "Error", waitErr)
	}()
}

// Kills the process and blocks until it has exited. There is no timeout.
func (s *OSSupervisor) stopRoot(d *Debuggee, exited <-chan struct{}, log logr.Logger) error {
	killErr := d.cmd.Process.Kill()
	if killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
		return fmt.Errorf("could not kill debuggee process %d: %w", d.handle.Pid, killErr)
	}

	<-exited
	log.V(1).Info("Debuggee process killed")
	return nil
}

// Best-effort stop for processes started by the debuggee. Failures are logged, not reported.
func (s *OSSupervisor) stopDescendants(descendants []ProcessHandle, log logr.Logger) {
	const descendantStopTimeout = 2 * time.Second

	for _, h := range descendants {
		stopErr := resiliency.RetryExponentialWithTimeout(context.Background(), descendantStopTimeout, func() error {
			proc, findErr := FindProcess(h)
			if errors.Is(findErr, ErrProcessNotFound) {
				return nil
			} else if findErr != nil {
				return resiliency.Permanent(findErr)
			}

			killErr := proc.Kill()
			if killErr != nil && !IsEarlyProcessExitError(killErr) {
				// Occasionally we see transient "access denied" errors, retry.
				return killErr
			}
			return nil
		})

		if stopErr != nil {
			log.Error(stopErr, "Could not stop process started by the debuggee", "ChildPID", h.Pid)
		}
	}
}

var _ Supervisor = (*OSSupervisor)(nil)

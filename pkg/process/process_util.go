/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package process

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	ps "github.com/shirou/gopsutil/v4/process"
)

// Process creation timestamps are reported with millisecond precision, so a couple of milliseconds of difference is tolerated.
const ProcessIdentityTimeMaximumDifference = 2 * time.Millisecond

// Returns the handles for a given process and its descendants.
// The list is ordered starting with the root of the hierarchy, then the children, then the grandchildren etc.
func GetProcessTree(root ProcessHandle) ([]ProcessHandle, error) {
	rootProc, err := findPsProcess(root)
	if err != nil {
		return nil, err
	}

	tree := []ProcessHandle{}
	next := []*ps.Process{rootProc}

	for len(next) > 0 {
		current := next[0]
		next = next[1:]
		tree = append(tree, NewProcessHandle(Uint32_ToPidT(uint32(current.Pid)), processIdentityTime(current)))

		children, childrenErr := current.Children()
		if childrenErr != nil {
			// If we fail to get the children, assume there are no children.
			children = []*ps.Process{}
		}

		next = append(next, children...)
	}

	return tree, nil
}

// Returns the creation time of a process, used to verify process identity.
// Returns zero time if the process cannot be found.
func ProcessIdentityTime(pid Pid_t) time.Time {
	osPid, osPidErr := PidT_ToUint32(pid)
	if osPidErr != nil {
		return time.Time{}
	}

	proc, procErr := ps.NewProcess(int32(osPid))
	if procErr != nil {
		return time.Time{}
	}

	return processIdentityTime(proc)
}

func processIdentityTime(proc *ps.Process) time.Time {
	createTimestamp, err := proc.CreateTime()
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(createTimestamp)
}

func findPsProcess(h ProcessHandle) (*ps.Process, error) {
	osPid, err := PidT_ToUint32(h.Pid)
	if err != nil {
		return nil, err
	}

	proc, procErr := ps.NewProcess(int32(osPid))
	if procErr != nil {
		if errors.Is(procErr, ps.ErrorProcessNotRunning) {
			return nil, fmt.Errorf("process with pid %d does not exist: %w", h.Pid, ErrProcessNotFound)
		}
		return nil, procErr
	}

	if !h.IdentityTime.IsZero() {
		actual := processIdentityTime(proc)
		if !within(h.IdentityTime, actual, ProcessIdentityTimeMaximumDifference) {
			// The PID has been reused by an unrelated process.
			return nil, fmt.Errorf("process with pid %d has identity time %s, expected %s: %w",
				h.Pid, actual.Format(time.RFC3339Nano), h.IdentityTime.Format(time.RFC3339Nano), ErrProcessNotFound)
		}
	}

	return proc, nil
}

// Returns the process identified by the handle. If the handle identity time is not zero,
// the process creation time must match it.
func FindProcess(h ProcessHandle) (*os.Process, error) {
	proc, err := findPsProcess(h)
	if err != nil {
		return nil, err
	}

	return os.FindProcess(int(proc.Pid))
}

func within(expected, actual time.Time, tolerance time.Duration) bool {
	diff := actual.Sub(expected)
	return diff <= tolerance && diff >= -tolerance
}

func Uint32_ToPidT(val uint32) Pid_t {
	// uint32 is always a valid PID value and can always be converted to Pid_t, which is int64-based.
	return Pid_t(val)
}

func PidT_ToUint32(val Pid_t) (uint32, error) {
	if val < 0 || val > math.MaxUint32 {
		return 0, fmt.Errorf("value %d is out of range of valid process ID values", val)
	}
	return uint32(val), nil
}

// Returns the process exit code and execution error depending on the result of the command wait call.
// A process terminated by a signal has no exit code and is reported with UnknownExitCode and no error.
func getProcessExecResult(waitErr error, cmd *exec.Cmd) (int32, error) {
	var ee *exec.ExitError
	switch {
	case waitErr == nil:
		return int32(cmd.ProcessState.ExitCode()), nil
	case errors.As(waitErr, &ee):
		return int32(ee.ExitCode()), nil
	default:
		return UnknownExitCode, waitErr
	}
}

// Checks if the error is associated with early exit of a process, which is often expected.
func IsEarlyProcessExitError(err error) bool {
	if err == nil {
		return false
	}

	var ee *exec.ExitError
	if errors.Is(err, os.ErrProcessDone) || errors.As(err, &ee) {
		return true
	}

	// Receiving ECHILD when calling wait() on the child process is expected,
	// (the parent process might have terminated them).
	var sysErr *os.SyscallError
	return errors.As(err, &sysErr) && strings.HasPrefix(sysErr.Syscall, "wait") && errors.Is(sysErr.Err, syscall.ECHILD)
}

func init() {
	ps.EnableBootTimeCache(true)
}

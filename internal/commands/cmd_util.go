/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"os"
	"runtime"

	"github.com/microsoft/dsadapter/pkg/logger"
)

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func WithNewline(b []byte) []byte {
	if IsWindows() {
		b = append(b, '\r')
	}
	b = append(b, '\n')
	return b
}

// ErrorExit reports a fatal error on stderr, flushes the log, and exits with the given code.
func ErrorExit(log *logger.Logger, err error, code int) {
	log.Error(err, "Debug adapter failed")
	_, _ = os.Stderr.Write(WithNewline([]byte(err.Error())))
	log.Flush()
	os.Exit(code)
}

/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package testutil

import (
	"context"
	"testing"
	"time"
)

// Returns a context that expires after testTimeout, or when the test deadline is reached, whichever comes first.
// A zero testTimeout means "use the test deadline only".
func GetTestContext(t *testing.T, testTimeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, haveDeadline := t.Deadline()

	if testTimeout != 0 {
		testDeadline := time.Now().Add(testTimeout)
		if !haveDeadline || testDeadline.Before(deadline) {
			deadline = testDeadline
			haveDeadline = true
		}
	}

	if !haveDeadline {
		return context.WithCancel(context.Background())
	}
	return context.WithDeadline(context.Background(), deadline)
}

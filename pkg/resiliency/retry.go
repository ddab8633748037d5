/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package resiliency

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func defaultExponentialBackoff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
}

// Try calling operation function with exponential back-off until either:
// - the operation succeeds, or
// - a permanent error occurs, or
// - passed context is cancelled, or
// - timeout is reached.
func RetryExponentialWithTimeout(ctx context.Context, timeout time.Duration, operation func() error) error {
	timeoutCtx, cancelTimeoutCtx := context.WithTimeout(ctx, timeout)
	defer cancelTimeoutCtx()
	return Retry(timeoutCtx, defaultExponentialBackoff(), operation)
}

// Try calling operation function with the given back-off policy until it succeeds,
// or a permanent error occurs, or the passed context is cancelled.
func Retry(ctx context.Context, b backoff.BackOff, operation func() error) error {
	var lastAttemptErr error

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(b, ctx),
		func(err error, _ time.Duration) {
			lastAttemptErr = err
		},
	)

	switch {
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)):
		// Inform the caller about the timeout AND the last attempt error.
		return errors.Join(lastAttemptErr, err)
	case err != nil:
		return err
	default:
		return nil
	}
}

// Creates a permanent error that stops the retry loop.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

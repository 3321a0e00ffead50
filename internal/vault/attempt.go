// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package vault

import "context"

// UnlockAttempt is a handle on one in-flight unlock. All callers that
// request an unlock while one is running share the same attempt, so the
// user faces at most one authenticator prompt at a time.
type UnlockAttempt struct {
	done chan struct{}
	err  error
}

func newUnlockAttempt() *UnlockAttempt {
	return &UnlockAttempt{done: make(chan struct{})}
}

// finish resolves the attempt. Called exactly once.
func (a *UnlockAttempt) finish(err error) {
	a.err = err
	close(a.done)
}

// Done returns a channel closed when the attempt resolves.
func (a *UnlockAttempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves or ctx is cancelled. A cancelled
// wait does not cancel the ceremony for the other waiters.
func (a *UnlockAttempt) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the attempt outcome, or nil while it is still running.
func (a *UnlockAttempt) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

package core

import "sync/atomic"

// CancelToken is a cooperative cancellation flag shared between the UI
// layer and the install pipeline. It is polled between download chunks
// and at task boundaries; cancellation is best-effort, never pre-emptive,
// and leaves already-completed plan entries installed.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken creates an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests cancellation of the current operation.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Reset clears the flag before a new operation starts.
func (t *CancelToken) Reset() {
	t.cancelled.Store(false)
}

// Cancelled reports whether cancellation was requested.
func (t *CancelToken) Cancelled() bool {
	return t.cancelled.Load()
}

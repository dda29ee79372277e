package ryde

import "sync"

// ActivationCoordinator fires the terminal success signal exactly once per
// run. Duplicate notifications (retried network responses, racing terminal
// transitions) collapse into the first call.
type ActivationCoordinator struct {
	once sync.Once
	fn   SucceededFunc
}

// NewActivationCoordinator wraps the caller-visible success callback. A nil
// callback yields a coordinator that swallows notifications.
func NewActivationCoordinator(fn SucceededFunc) *ActivationCoordinator {
	return &ActivationCoordinator{fn: fn}
}

// Notify delivers the success signal. Only the first call has effect.
func (c *ActivationCoordinator) Notify(result *VerificationResult) {
	if c == nil || c.fn == nil {
		return
	}
	c.once.Do(func() {
		c.fn(result)
	})
}

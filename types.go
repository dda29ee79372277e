package ryde

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityGateway wraps the identity provider operations the workflow needs.
// Implementations must translate every provider fault into a *FlowError; raw
// transport or SDK errors must not escape this boundary.
type IdentityGateway interface {
	// CreateAccount registers the credentials with the provider and returns
	// the opaque handle for the in-progress sign-up.
	CreateAccount(ctx context.Context, email, password string) (AccountHandle, error)

	// RequestVerificationCode asks the provider to send an out-of-band code
	// for the given sign-up. No payload is returned.
	RequestVerificationCode(ctx context.Context, handle AccountHandle) error

	// VerifyCode submits a user-entered code. A nil error with an incomplete
	// status means the code was rejected but the sign-up can be retried.
	VerifyCode(ctx context.Context, handle AccountHandle, code string) (*VerificationResult, error)

	// SignIn authenticates an existing account with the provider.
	SignIn(ctx context.Context, identifier, password string) (*VerificationResult, error)

	// ActivateSession marks the provider session as the active one.
	ActivateSession(ctx context.Context, sessionID string) error
}

// ProfileSink persists the application-side user record once the account has
// been verified. Persist is invoked exactly once per successful run, keyed by
// the provider account id.
type ProfileSink interface {
	Persist(ctx context.Context, name, email, providerAccountID string) error
}

// SucceededFunc is the caller-visible terminal success signal. It fires at
// most once per run, after the session has been activated.
type SucceededFunc func(result *VerificationResult)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] RYDE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] RYDE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] RYDE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

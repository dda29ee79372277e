package ryde

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventAccountCreated   ActivityEventType = "signup.account.created"
	ActivityEventCodeRequested    ActivityEventType = "signup.verification.requested"
	ActivityEventVerified         ActivityEventType = "signup.verified"
	ActivityEventVerifyRejected   ActivityEventType = "signup.verification.rejected"
	ActivityEventProfileRecorded  ActivityEventType = "signup.profile.recorded"
	ActivityEventSessionActivated ActivityEventType = "signup.session.activated"
	ActivityEventSucceeded        ActivityEventType = "signup.succeeded"
	ActivityEventFailed           ActivityEventType = "signup.failed"
	ActivityEventLoginSuccess     ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure     ActivityEventType = "auth.login.failure"
)

// ActivityEvent captures audit-friendly information about a workflow step.
type ActivityEvent struct {
	EventType  ActivityEventType
	Handle     AccountHandle
	Email      string
	FromState  FlowState
	ToState    FlowState
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

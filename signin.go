package ryde

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// SignInForm carries the credentials for an existing account.
type SignInForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the same field rules the sign-up form uses for the
// overlapping fields.
func (f SignInForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email,
			validation.By(requiredTrimmed("Email is required")),
			validation.Match(emailPattern).Error("Email is invalid"),
		),
		validation.Field(&f.Password,
			validation.Required.Error("Password is required"),
		),
	)
}

// Login authenticates existing accounts. Unlike Signup it holds no run state
// and a single instance can serve many attempts.
type Login struct {
	gateway  IdentityGateway
	logger   Logger
	activity ActivitySink
	now      func() time.Time
}

// LoginOption customizes Login construction.
type LoginOption func(*Login)

// WithLoginLogger overrides the default logger.
func WithLoginLogger(logger Logger) LoginOption {
	return func(l *Login) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLoginActivitySink sets the ActivitySink used to publish login events.
func WithLoginActivitySink(sink ActivitySink) LoginOption {
	return func(l *Login) {
		l.activity = normalizeActivitySink(sink)
	}
}

// WithLoginClock injects a custom clock.
func WithLoginClock(clock func() time.Time) LoginOption {
	return func(l *Login) {
		if clock != nil {
			l.now = clock
		}
	}
}

// NewLogin builds a Login flow around the given gateway.
func NewLogin(gateway IdentityGateway, opts ...LoginOption) *Login {
	l := &Login{
		gateway:  gateway,
		logger:   defLogger{},
		activity: noopActivitySink{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	if l.gateway == nil {
		panic("Missing IdentityGateway in login flow...")
	}

	return l
}

// SignIn validates the form, authenticates with the provider, and activates
// the resulting session. On success it returns the session id. A provider
// result that is not complete (second factor pending, abandoned attempt)
// comes back as ErrLoginFailed.
func (l *Login) SignIn(ctx context.Context, form SignInForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	result, err := l.gateway.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		fe := NormalizeFlowError(err)
		l.recordActivity(ctx, ActivityEventLoginFailure, form.Email, map[string]any{
			"error": fe.Message,
		})
		return "", fe
	}

	if result == nil || result.Status != VerificationComplete {
		l.recordActivity(ctx, ActivityEventLoginFailure, form.Email, map[string]any{
			"error": MsgLoginFailed,
		})
		return "", ErrLoginFailed
	}

	if err := l.gateway.ActivateSession(ctx, result.SessionID); err != nil {
		fe := NormalizeFlowError(err)
		l.logger.Error("activate session: %s", err)
		l.recordActivity(ctx, ActivityEventLoginFailure, form.Email, map[string]any{
			"error": fe.Message,
		})
		return "", fe
	}

	l.recordActivity(ctx, ActivityEventLoginSuccess, form.Email, map[string]any{
		"session_id": result.SessionID,
	})

	return result.SessionID, nil
}

func (l *Login) recordActivity(ctx context.Context, event ActivityEventType, email string, meta map[string]any) {
	err := l.activity.Record(ctx, ActivityEvent{
		EventType:  event,
		Email:      email,
		Metadata:   meta,
		OccurredAt: l.now(),
	})
	if err != nil {
		l.logger.Error("activity sink record failed: %s", err)
	}
}

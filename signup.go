package ryde

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-print"
)

// Signup orchestrates one account-provisioning run: validate the form, create
// the account at the provider, hold the pending verification, verify the
// user-entered code, record the profile, and activate the session. Create one
// instance per form fill; instances are not reusable across runs.
type Signup struct {
	gateway     IdentityGateway
	sink        ProfileSink
	logger      Logger
	activity    ActivitySink
	coordinator *ActivationCoordinator
	now         func() time.Time
	debug       bool

	mu          sync.Mutex
	state       FlowState
	code        string
	stateErr    string
	form        SignupForm
	fieldErrors FieldErrors
	handle      AccountHandle
	inFlight    bool
	closed      bool
}

// SignupOption customizes workflow construction.
type SignupOption func(*Signup)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) SignupOption {
	return func(s *Signup) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink sets the ActivitySink used to publish workflow events.
func WithActivitySink(sink ActivitySink) SignupOption {
	return func(s *Signup) {
		s.activity = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) SignupOption {
	return func(s *Signup) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithSucceeded registers the terminal success callback. It fires at most
// once per run, after persist and session activation both succeed.
func WithSucceeded(fn SucceededFunc) SignupOption {
	return func(s *Signup) {
		s.coordinator = NewActivationCoordinator(fn)
	}
}

// WithDebug enables payload logging for submissions. Passwords are redacted.
func WithDebug(debug bool) SignupOption {
	return func(s *Signup) {
		s.debug = debug
	}
}

// NewSignup builds a workflow instance for a single provisioning run.
func NewSignup(gateway IdentityGateway, sink ProfileSink, opts ...SignupOption) *Signup {
	s := &Signup{
		gateway:     gateway,
		sink:        sink,
		logger:      defLogger{},
		activity:    noopActivitySink{},
		coordinator: NewActivationCoordinator(nil),
		now:         time.Now,
		state:       StateIdle,
		fieldErrors: FieldErrors{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.gateway == nil {
		panic("Missing IdentityGateway in signup workflow...")
	}

	if s.sink == nil {
		panic("Missing ProfileSink in signup workflow...")
	}

	return s
}

// State returns an observable snapshot of the run.
func (s *Signup) State() VerificationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VerificationState{
		State: s.state,
		Code:  s.code,
		Error: s.stateErr,
	}
}

// FieldErrors returns a copy of the current field error map.
func (s *Signup) FieldErrors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrors.clone()
}

// Close marks the workflow instance abandoned. Provider calls already in
// flight resolve without mutating observable state, and the success callback
// can no longer fire.
func (s *Signup) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Submit validates the snapshot and, when it passes, creates the account at
// the provider and requests a verification code. Validation failures come
// back in the FieldErrors map with a nil error; provider failures come back
// as a *FlowError (field-scoped ones are also folded into the map) and the
// run stays in StateIdle so the user can resubmit. An unrecoverable fault at
// creation time ends the run in StateFailed.
func (s *Signup) Submit(ctx context.Context, form SignupForm) (FieldErrors, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrFlowAbandoned
	}
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil, ErrFlowTerminal
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrAlreadyPending
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	fieldErrs, ok := ValidateForm(form)
	s.form = form
	s.fieldErrors = fieldErrs
	if !ok {
		s.mu.Unlock()
		return fieldErrs.clone(), nil
	}

	s.inFlight = true
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("sign-up submit payload: %s", print.MaybePrettyJSON(redactForm(form)))
	}

	handle, err := s.gateway.CreateAccount(ctx, form.Email, form.Password)
	if err != nil {
		return s.creationFailed(ctx, err)
	}

	if s.isClosed() {
		return nil, s.abandon()
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountCreated,
		Handle:    handle,
		Email:     form.Email,
		FromState: StateIdle,
		ToState:   StateIdle,
	})

	if err := s.gateway.RequestVerificationCode(ctx, handle); err != nil {
		return s.creationFailed(ctx, err)
	}

	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return nil, ErrFlowAbandoned
	}

	s.handle = handle
	s.code = ""
	s.stateErr = ""
	evt, emit := s.setState(StatePending, ActivityEventCodeRequested, map[string]any{
		"email": form.Email,
	})
	out := s.fieldErrors.clone()
	s.mu.Unlock()

	if emit {
		s.recordActivity(ctx, evt)
	}
	return out, nil
}

// Verify submits a user-entered code for the pending sign-up. A rejected code
// keeps the run in StatePending with the code retained for editing; a
// complete verification records the profile and activates the session before
// the run reaches StateSucceeded.
func (s *Signup) Verify(ctx context.Context, code string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}
	if s.state.Terminal() {
		s.mu.Unlock()
		return ErrFlowTerminal
	}
	if s.state == StateVerifying || s.inFlight {
		s.mu.Unlock()
		return ErrVerifyInFlight
	}
	if s.state != StatePending {
		s.mu.Unlock()
		return ErrNotPending
	}

	s.inFlight = true
	s.code = code
	s.stateErr = ""
	handle := s.handle
	form := s.form
	s.setState(StateVerifying, "", nil)
	s.mu.Unlock()

	result, err := s.gateway.VerifyCode(ctx, handle, code)
	if err != nil {
		fe := NormalizeFlowError(err)
		msg := fe.Message
		if msg == "" {
			msg = MsgVerificationFallback
		}
		return s.verifyRejected(ctx, code, msg, fe)
	}

	if result == nil || result.Status != VerificationComplete {
		return s.verifyRejected(ctx, code, MsgVerificationRetry, ErrVerificationIncomplete)
	}

	// Abandonment while the provider call was in flight: drop the result
	// before any side effects.
	if s.isClosed() {
		return s.abandon()
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventVerified,
		Handle:    handle,
		Email:     form.Email,
		FromState: StateVerifying,
		ToState:   StateVerifying,
	})

	// The code is consumed at the provider once verification completes, so a
	// failed write below must not trigger another VerifyCode round trip.
	if err := s.sink.Persist(ctx, form.Name, form.Email, result.AccountID); err != nil {
		s.logger.Error("record profile: %s", err)
		return s.partialFailure(ctx, code, ErrProfileNotRecorded)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventProfileRecorded,
		Handle:    handle,
		Email:     form.Email,
		FromState: StateVerifying,
		ToState:   StateVerifying,
		Metadata:  map[string]any{"account_id": result.AccountID},
	})

	if err := s.gateway.ActivateSession(ctx, result.SessionID); err != nil {
		s.logger.Error("activate session: %s", err)
		return s.partialFailure(ctx, code, ErrSessionActivation)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSessionActivated,
		Handle:    handle,
		Email:     form.Email,
		FromState: StateVerifying,
		ToState:   StateVerifying,
		Metadata:  map[string]any{"session_id": result.SessionID},
	})

	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}
	s.stateErr = ""
	evt, emit := s.setState(StateSucceeded, ActivityEventSucceeded, map[string]any{
		"account_id": result.AccountID,
	})
	s.mu.Unlock()

	if emit {
		s.recordActivity(ctx, evt)
	}
	s.coordinator.Notify(result)
	return nil
}

// ResendCode asks the provider for a fresh verification code. Allowed only
// while the run is pending.
func (s *Signup) ResendCode(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}
	if s.state != StatePending {
		s.mu.Unlock()
		if s.state.Terminal() {
			return ErrFlowTerminal
		}
		return ErrNotPending
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrVerifyInFlight
	}

	s.inFlight = true
	handle := s.handle
	email := s.form.Email
	s.mu.Unlock()

	err := s.gateway.RequestVerificationCode(ctx, handle)

	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}

	if err != nil {
		fe := NormalizeFlowError(err)
		s.stateErr = fe.Message
		s.mu.Unlock()
		return fe
	}

	s.stateErr = ""
	s.mu.Unlock()

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventCodeRequested,
		Handle:    handle,
		Email:     email,
		FromState: StatePending,
		ToState:   StatePending,
	})
	return nil
}

func (s *Signup) creationFailed(ctx context.Context, cause error) (FieldErrors, error) {
	fe := NormalizeFlowError(cause)

	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return nil, ErrFlowAbandoned
	}

	var evt ActivityEvent
	var emit bool
	switch fe.Kind {
	case ErrorKindField:
		s.fieldErrors[fe.Field] = fe.Message
		// The client renders a password complaint under both password inputs.
		if fe.Field == FieldPassword {
			s.fieldErrors[FieldConfirmPassword] = fe.Message
		}
	case ErrorKindGlobal:
		s.stateErr = fe.Message
	default:
		s.stateErr = fe.Message
		evt, emit = s.setState(StateFailed, ActivityEventFailed, map[string]any{
			"error": fe.Error(),
		})
	}
	out := s.fieldErrors.clone()
	s.mu.Unlock()

	if emit {
		s.recordActivity(ctx, evt)
	}
	return out, fe
}

func (s *Signup) verifyRejected(ctx context.Context, code, message string, cause error) error {
	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}

	s.code = code
	s.stateErr = message
	evt, emit := s.setState(StatePending, ActivityEventVerifyRejected, map[string]any{
		"error": message,
	})
	s.mu.Unlock()

	if emit {
		s.recordActivity(ctx, evt)
	}
	return cause
}

func (s *Signup) partialFailure(ctx context.Context, code string, cause error) error {
	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		return ErrFlowAbandoned
	}

	s.code = code
	s.stateErr = MsgProfileNotRecorded
	evt, emit := s.setState(StatePending, ActivityEventFailed, map[string]any{
		"error": cause.Error(),
	})
	s.mu.Unlock()

	if emit {
		s.recordActivity(ctx, evt)
	}
	return cause
}

// setState performs a transition and prepares the associated event. Callers
// hold the mutex and are responsible for only requesting legal transitions; an
// illegal one is dropped and logged. The returned event must be emitted after
// the mutex is released so activity sinks never run under the lock.
func (s *Signup) setState(to FlowState, event ActivityEventType, meta map[string]any) (ActivityEvent, bool) {
	from := s.state
	if from != to && !canTransition(from, to) {
		s.logger.Error("invalid flow transition from %s to %s", from, to)
		return ActivityEvent{}, false
	}

	s.state = to
	if event == "" {
		return ActivityEvent{}, false
	}

	return ActivityEvent{
		EventType: event,
		Handle:    s.handle,
		Email:     s.form.Email,
		FromState: from,
		ToState:   to,
		Metadata:  meta,
	}, true
}

func (s *Signup) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Signup) abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	return ErrFlowAbandoned
}

func (s *Signup) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Error("activity sink record failed: %s", err)
	}
}

func redactForm(form SignupForm) SignupForm {
	if form.Password != "" {
		form.Password = "[redacted]"
	}
	if form.ConfirmPassword != "" {
		form.ConfirmPassword = "[redacted]"
	}
	return form
}

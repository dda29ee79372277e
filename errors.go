package ryde

import (
	stderrors "errors"
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeAlreadyPending      = "signup_already_pending"
	TextCodeSubmitInFlight      = "signup_submit_in_flight"
	TextCodeVerifyInFlight      = "signup_verify_in_flight"
	TextCodeNotPending          = "signup_not_pending"
	TextCodeFlowTerminal        = "signup_flow_terminal"
	TextCodeFlowAbandoned       = "signup_flow_abandoned"
	TextCodeVerifyIncomplete    = "signup_verification_incomplete"
	TextCodeProfileNotRecorded  = "signup_profile_not_recorded"
	TextCodeSessionActivation   = "signup_session_activation_failed"
	TextCodeLoginFailed         = "signin_failed"
	TextCodeProfilePersistence  = "profile_persistence_failed"
	TextCodeAccountCreateFailed = "signup_account_create_failed"
)

// User-facing messages the workflow folds into its observable state. The
// wording matches what the Ryde client renders.
const (
	MsgVerificationRetry    = "Verification failed. Please check the code and try again."
	MsgVerificationFallback = "Verification failed. Please try again."
	MsgProfileNotRecorded   = "Account verified, but there was an error creating your profile. Please contact support."
	MsgUnexpectedError      = "An unexpected error occurred. Please try again."
	MsgLoginFailed          = "Log in failed. Please try again."
)

// ErrAlreadyPending is returned when a form is submitted while a verification
// for the same run is still outstanding.
var ErrAlreadyPending = errors.New("sign-up already pending verification", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyPending).
	WithCode(errors.CodeConflict)

// ErrSubmitInFlight is returned when a form submission arrives while account
// creation is still in flight.
var ErrSubmitInFlight = errors.New("sign-up submission already in flight", errors.CategoryConflict).
	WithTextCode(TextCodeSubmitInFlight).
	WithCode(errors.CodeConflict)

// ErrVerifyInFlight is returned when a code is submitted while a verification
// attempt is still in flight.
var ErrVerifyInFlight = errors.New("verification already in flight", errors.CategoryConflict).
	WithTextCode(TextCodeVerifyInFlight).
	WithCode(errors.CodeConflict)

// ErrNotPending is returned when a code is submitted but no verification is
// outstanding.
var ErrNotPending = errors.New("no verification pending", errors.CategoryConflict).
	WithTextCode(TextCodeNotPending).
	WithCode(errors.CodeConflict)

// ErrFlowTerminal is returned for operations on a run that already reached a
// terminal state.
var ErrFlowTerminal = errors.New("sign-up flow already finished", errors.CategoryConflict).
	WithTextCode(TextCodeFlowTerminal).
	WithCode(errors.CodeConflict)

// ErrFlowAbandoned is returned when the consumer has closed the workflow
// instance; late provider responses are dropped instead of mutating state.
var ErrFlowAbandoned = errors.New("sign-up flow abandoned", errors.CategoryConflict).
	WithTextCode(TextCodeFlowAbandoned).
	WithCode(errors.CodeConflict)

// ErrVerificationIncomplete is returned when the provider rejects the entered
// code without raising an error. The run stays pending and can be retried.
var ErrVerificationIncomplete = errors.New("verification incomplete", errors.CategoryAuth).
	WithTextCode(TextCodeVerifyIncomplete).
	WithCode(errors.CodeBadRequest)

// ErrProfileNotRecorded is the distinguished partial-failure sentinel: the
// account was verified but the profile record could not be written. It is
// never retried automatically; resolving it requires support intervention.
var ErrProfileNotRecorded = errors.New("account verified but profile not recorded", errors.CategoryOperation).
	WithTextCode(TextCodeProfileNotRecorded).
	WithCode(errors.CodeInternal)

// ErrSessionActivation is returned when the session could not be activated
// after a successful verification and profile write.
var ErrSessionActivation = errors.New("session activation failed", errors.CategoryOperation).
	WithTextCode(TextCodeSessionActivation).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode("token_expired").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed or its
// signature does not check out.
var ErrTokenMalformed = errors.New("token malformed", errors.CategoryAuth).
	WithTextCode("token_malformed").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToParseSession is returned when token claims cannot be mapped to a
// session object.
var ErrUnableToParseSession = errors.New("unable to parse session claims", errors.CategoryAuth).
	WithTextCode("session_claims_invalid").
	WithCode(errors.CodeUnauthorized)

// ErrLoginFailed is returned when a sign-in attempt does not complete.
var ErrLoginFailed = errors.New("log in failed", errors.CategoryAuth).
	WithTextCode(TextCodeLoginFailed).
	WithCode(errors.CodeUnauthorized)

// ErrorKind classifies a normalized provider or sink fault.
type ErrorKind string

const (
	// ErrorKindField marks a user-correctable fault scoped to one form field.
	ErrorKindField ErrorKind = "field"
	// ErrorKindGlobal marks a user-correctable fault with no field scope.
	ErrorKindGlobal ErrorKind = "global"
	// ErrorKindUnrecoverable marks a fault that retrying with the same input
	// cannot fix.
	ErrorKindUnrecoverable ErrorKind = "unrecoverable"
)

// FlowError is the only error shape allowed to cross from the gateway or the
// sink into the workflow. Field is set when Kind is ErrorKindField.
type FlowError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e == nil {
		return "flow error"
	}
	if e.Kind == ErrorKindField && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func (e *FlowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldError builds a field-scoped FlowError keyed by a SignupForm field.
func FieldError(field, message string) *FlowError {
	return &FlowError{Kind: ErrorKindField, Field: field, Message: message}
}

// GlobalError builds a FlowError that should be rendered as a banner or
// alert rather than inline.
func GlobalError(message string, err error) *FlowError {
	return &FlowError{Kind: ErrorKindGlobal, Message: message, Err: err}
}

// Unrecoverable wraps a fault with no structured payload behind a generic
// user-facing message.
func Unrecoverable(err error) *FlowError {
	return &FlowError{Kind: ErrorKindUnrecoverable, Message: MsgUnexpectedError, Err: err}
}

// NormalizeFlowError coerces any error into a *FlowError. Gateways and sinks
// already return FlowErrors; anything else is treated as an unstructured
// fault. Rich go-errors values keep their message as the global message.
func NormalizeFlowError(err error) *FlowError {
	if err == nil {
		return nil
	}

	var fe *FlowError
	if stderrors.As(err, &fe) {
		return fe
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		return &FlowError{Kind: ErrorKindGlobal, Message: rich.Message, Err: rich}
	}

	return Unrecoverable(err)
}

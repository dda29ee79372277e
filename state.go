package ryde

// FlowState identifies where a provisioning run currently is.
type FlowState string

const (
	// StateIdle is the initial state: no account has been created yet.
	StateIdle FlowState = "idle"
	// StatePending means the account exists at the provider and a
	// verification code is outstanding.
	StatePending FlowState = "pending"
	// StateVerifying means a code attempt is in flight at the provider.
	StateVerifying FlowState = "verifying"
	// StateSucceeded is terminal: verified, recorded, session active.
	StateSucceeded FlowState = "succeeded"
	// StateFailed is terminal for the run; only unrecoverable faults at
	// account-creation time reach it.
	StateFailed FlowState = "failed"
)

// Terminal reports whether the run does not transition further.
func (s FlowState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// flowTransitions is the allowed transition graph. Persistence and session
// activation are reachable only through StateVerifying, so nothing can skip
// verification.
var flowTransitions = map[FlowState]map[FlowState]struct{}{
	StateIdle: {
		StatePending: {},
		StateFailed:  {},
	},
	StatePending: {
		StateVerifying: {},
	},
	StateVerifying: {
		StatePending:   {},
		StateSucceeded: {},
	},
}

func canTransition(from, to FlowState) bool {
	targets, ok := flowTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// VerificationState is the observable snapshot of a run. Code carries the
// last entered verification code so the caller can re-render it for edits;
// Error carries the current user-facing message, empty when none.
type VerificationState struct {
	State FlowState
	Code  string
	Error string
}

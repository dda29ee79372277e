package ryde

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Form field names. They double as FieldErrors keys and as the target of
// field-scoped provider errors.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// SignupForm is an immutable snapshot of the sign-up form. A new value is
// produced on every edit; the workflow never mutates one in place.
type SignupForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// FieldErrors maps a form field name to a human-readable message. An empty
// string means the field has no error. Each validation pass recomputes the
// whole map so stale messages never leak across passes.
type FieldErrors map[string]string

// HasErrors reports whether any field carries a non-empty message.
func (f FieldErrors) HasErrors() bool {
	for _, msg := range f {
		if msg != "" {
			return true
		}
	}
	return false
}

func (f FieldErrors) clone() FieldErrors {
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// AccountHandle is the opaque identifier the provider returns for an
// in-progress sign-up. It lives only for the duration of the run.
type AccountHandle string

// VerificationStatus is the provider's answer to a code attempt.
type VerificationStatus string

const (
	VerificationComplete   VerificationStatus = "complete"
	VerificationIncomplete VerificationStatus = "incomplete"
)

// VerificationResult is the outcome of VerifyCode or SignIn. AccountID and
// SessionID are set only when Status is VerificationComplete.
type VerificationResult struct {
	Status    VerificationStatus
	AccountID string
	SessionID string
}

// UserProfile is the application-side user record, keyed by the provider
// account id (clerk_id).
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:prf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	ClerkID       string     `bun:"clerk_id,notnull,unique" json:"clerkId,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

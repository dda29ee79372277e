package ryde

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the claim set carried by provider session tokens. The sid
// claim identifies the provider session; the registered subject identifies
// the account.
type SessionClaims struct {
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// SessionObject is the decoded view of an activated provider session.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s sid=%s iss=%s iat=%s",
		s.UserID,
		s.SessionID,
		s.Issuer,
		issuedAt,
	)
}

// SessionFromClaims maps verified token claims to a SessionObject.
func SessionFromClaims(claims *SessionClaims) (*SessionObject, error) {
	if claims == nil || claims.Subject == "" {
		return nil, ErrUnableToParseSession
	}

	session := &SessionObject{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Issuer:    claims.Issuer,
	}

	if claims.IssuedAt != nil {
		issuedAt := claims.IssuedAt.Time
		session.IssuedAt = &issuedAt
	}

	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time
		session.ExpirationDate = &expiresAt
	}

	return session, nil
}

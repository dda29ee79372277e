package clerk

import (
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/The-CodeINN/ryde"
)

// TokenValidator validates Clerk-issued session JWTs using the instance JWKS.
type TokenValidator struct {
	config Config
	keyFn  jwt.Keyfunc
}

// NewTokenValidator creates a new Clerk token validator. Unless Config.KeyFunc
// is set, it fetches the JWKS eagerly and keeps it refreshed in the
// background.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	keyFn := cfg.KeyFunc

	if keyFn == nil {
		jwksURL := cfg.jwksURL()
		if jwksURL == "" {
			return nil, fmt.Errorf("clerk: frontend API URL or JWKS URL is required")
		}

		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("failed to do a background refresh of JWK set: %s", err)
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, fmt.Errorf("clerk: failed to fetch JWK set: %w", err)
		}
		keyFn = jwks.Keyfunc
	}

	return &TokenValidator{
		config: cfg,
		keyFn:  keyFn,
	}, nil
}

// Validate parses and verifies a session token and maps its claims to a
// session object.
func (v *TokenValidator) Validate(tokenString string) (*ryde.SessionObject, error) {
	claims := &ryde.SessionClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		v.keyFn,
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		return nil, normalizeValidationError(err)
	}

	if token == nil || !token.Valid {
		return nil, ryde.ErrTokenMalformed
	}

	return ryde.SessionFromClaims(claims)
}

func normalizeValidationError(err error) error {
	if err == nil {
		return nil
	}

	clone := ryde.ErrTokenMalformed.Clone()
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		clone = ryde.ErrTokenExpired.Clone()
	}

	if clone == nil {
		return err
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "clerk",
		"cause":    err.Error(),
	})
}

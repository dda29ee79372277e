// Package clerk implements the identity gateway and session token validation
// against the Clerk frontend API.
//
// Use NewGateway with ryde.NewSignup or ryde.NewLogin to drive the
// provisioning workflow against a Clerk instance, and NewTokenValidator to
// verify the session tokens it mints.
package clerk

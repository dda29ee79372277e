// Package ryde implements the client-side account provisioning workflow for
// the Ryde application: collect sign-up credentials, create the account with
// the identity provider, verify it with an out-of-band code, record the
// matching profile in the application store, and activate the session.
//
// Workflow:
//   - Signup owns one provisioning run. Each form fill gets its own instance;
//     Submit and Verify drive the run through the Idle, Pending, Verifying,
//     Succeeded, and Failed states while an in-flight guard rejects double
//     submissions. Callers observe progress through State and FieldErrors.
//   - IdentityGateway and ProfileSink are the only external capabilities the
//     workflow talks to. Every fault they raise is normalized into a FlowError
//     (field, global, or unrecoverable) before it reaches the state machine;
//     nothing provider-specific crosses that boundary.
//   - The partial-failure case (account verified but the profile record could
//     not be written) is surfaced with its own distinguished message and is
//     never retried automatically.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter the workflow uses to
//     describe account creation, verification, profile recording, and session
//     activation events. Sinks run best-effort (errors are logged) so you can
//     forward to a database or queue without blocking provisioning.
//
// The provider/clerk subpackage implements IdentityGateway against the Clerk
// client API; sink implementations cover both the application's HTTP user
// endpoint and a Bun-backed local repository.
package ryde

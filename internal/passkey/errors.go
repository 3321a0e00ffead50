package passkey

import "errors"

var (
	// ErrCeremonyCancelled indicates the user dismissed the platform
	// prompt. Recoverable by an explicit retry; never retried
	// automatically.
	ErrCeremonyCancelled = errors.New("ceremony cancelled by user")

	// ErrCeremonyFailed indicates an authenticator or transport failure
	// during a ceremony.
	ErrCeremonyFailed = errors.New("ceremony failed")

	// ErrPRFUnsupported indicates the authenticator did not enable the PRF
	// extension at registration. A passkey without PRF could never decrypt
	// anything, so registration fails instead of returning one.
	ErrPRFUnsupported = errors.New("PRF extension not supported by authenticator")

	// ErrPRFOutputMissing indicates an assertion succeeded but carried no
	// PRF result. Treated like a ceremony failure; a dummy key is never
	// substituted.
	ErrPRFOutputMissing = errors.New("assertion returned no PRF output")

	// ErrIdentityIncomplete indicates the identity provider has not
	// resolved a user id or email yet; registration is not attempted.
	ErrIdentityIncomplete = errors.New("user identity incomplete")

	// ErrCredentialMismatch indicates the assertion was produced by a
	// different credential than the one requested. Treated as an
	// authentication failure rather than trusting the unexpected
	// credential.
	ErrCredentialMismatch = errors.New("assertion credential does not match stored passkey")
)

package crypto

import "errors"

var (
	// ErrAuthenticationFailed indicates the GCM authentication tag did not
	// verify: wrong key, tampered ciphertext, or IV mismatch.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrDecodeFailed indicates a stored ciphertext or IV is not valid
	// base64. Distinct from ErrAuthenticationFailed.
	ErrDecodeFailed = errors.New("encrypted field decode failed")

	// ErrInvalidKeyLength indicates the provided key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidPRFOutput indicates the PRF output does not match the
	// authenticator contract (32 bytes). Programming-error class: fatal,
	// not retried.
	ErrInvalidPRFOutput = errors.New("invalid PRF output length")
)

package vault

import "errors"

var (
	// ErrNoPasskey is returned by operations that need a bound passkey
	// before one has been registered.
	ErrNoPasskey = errors.New("no passkey registered")

	// ErrPasskeyExists is returned by Register when a passkey is already
	// bound; re-registration would orphan every stored ciphertext.
	ErrPasskeyExists = errors.New("passkey already registered")

	// ErrLocked is returned when plaintext access is requested without an
	// unlocked session key.
	ErrLocked = errors.New("vault is locked")
)

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_service_mock.go -package=mock

import "github.com/socius-org/RedditHarbor/models"

// CipherService owns all client-side cryptography for the api key vault.
// It knows nothing about ceremonies, storage, or users; its only job is to
// turn PRF output into a usable key and to protect text under that key.
//
// Scheme:
//
//	salt      = GeneratePRFSalt()            once, at registration
//	prfOutput = authenticator PRF(salt)      every unlock
//	key       = DeriveKey(prfOutput)         HKDF-SHA256, domain separated
//	field     = Encrypt(plaintext, key)      AES-256-GCM, fresh IV per call
type CipherService interface {
	// GenerateChallenge returns a fresh 32-byte random ceremony challenge.
	GenerateChallenge() ([]byte, error)

	// GeneratePRFSalt returns a fresh 32-byte random PRF evaluation input.
	// Generated exactly once per passkey; the caller persists it and must
	// never regenerate it, since every stored ciphertext depends on it.
	GeneratePRFSalt() ([]byte, error)

	// DeriveKey expands the raw PRF output into a 256-bit AES-GCM key via
	// HKDF-SHA256 with a fixed versioned info string, so the same PRF
	// output cannot be repurposed for an unrelated protocol. Deterministic:
	// identical input always yields the identical key. Returns
	// ErrInvalidPRFOutput if the input is not the contracted 32 bytes;
	// that indicates a broken authenticator contract and is never retried.
	DeriveKey(prfOutput []byte) ([]byte, error)

	// Encrypt seals plaintext under key with AES-256-GCM and a fresh
	// 12-byte IV read from the OS CSPRNG. Ciphertext and IV come back
	// base64-encoded, ready for string-oriented persistence.
	Encrypt(plaintext string, key []byte) (models.EncryptedData, error)

	// Decrypt opens an encrypted field. Malformed base64 fails with
	// ErrDecodeFailed; a GCM tag verification failure (wrong key, tampered
	// or corrupted data) fails with ErrAuthenticationFailed. The two are
	// distinct because callers recover differently: a decode error means a
	// broken record, an authentication error must be shown to the user and
	// never interpreted as "field is unset".
	Decrypt(enc models.EncryptedData, key []byte) (string, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

import "encoding/base64"

// Passkey is a device-bound credential reference created by a successful
// registration ceremony. It is persisted client-side and never mutated:
// regenerating PRFSalt would invalidate every api key encrypted under the
// key derived from it, so the salt is generated exactly once.
type Passkey struct {
	// ID is the base64-encoded raw credential id returned by the
	// authenticator. It uniquely identifies the platform credential and is
	// used to restrict subsequent assertion ceremonies to this credential.
	ID string `json:"id"`

	// PublicKey is the base64-encoded credential public key. The client
	// never verifies signatures itself; the value is kept for parity with
	// the persisted record shape and potential future use.
	PublicKey string `json:"publicKey"`

	// PRFSalt is the base64-encoded 32-byte PRF evaluation input. It is
	// chosen by this application (not by the authenticator) at registration
	// time and fixed for the lifetime of the passkey.
	PRFSalt string `json:"prfSalt"`
}

// CredentialID decodes the raw credential id bytes.
func (p Passkey) CredentialID() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.ID)
}

// PRFSaltBytes decodes the raw PRF salt bytes.
func (p Passkey) PRFSaltBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.PRFSalt)
}

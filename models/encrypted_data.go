// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

// EncryptedData is the authenticated-encryption output of a single plaintext
// value. Both fields are base64 (standard alphabet) so the value round-trips
// through string-oriented storage without loss.
type EncryptedData struct {
	// Ciphertext is the base64-encoded AES-256-GCM output, authentication
	// tag included.
	Ciphertext string `json:"ciphertext"`

	// IV is the base64-encoded 12-byte initialisation vector. A fresh IV is
	// generated from the OS CSPRNG on every encryption call; an IV is never
	// reused under the same key.
	IV string `json:"iv"`
}

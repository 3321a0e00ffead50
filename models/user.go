// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

// User holds the identity attributes supplied by the session provider.
// Registration of a passkey requires UserID and Email to be resolved; the
// binding fails fast with an identity error otherwise.
type User struct {
	// UserID is the stable identifier assigned by the identity provider.
	// It becomes the user handle of the created credential.
	UserID string `json:"userId"`

	// Email is shown by the platform authenticator as the account name.
	Email string `json:"email"`

	// DisplayName is the human-readable name shown alongside Email.
	// May be empty.
	DisplayName string `json:"displayName"`
}

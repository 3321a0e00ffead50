// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

// COSE algorithm identifiers accepted for new credentials.
const (
	AlgES256 = -7
	AlgRS256 = -257
)

// User verification and attachment values as defined by the WebAuthn spec.
const (
	AttachmentPlatform       = "platform"
	UserVerificationRequired = "required"
)

// RelyingParty identifies the party a credential is scoped to.
type RelyingParty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PRFValues carries the salt inputs (or outputs) of the PRF extension.
// Second is optional and unused by this application.
type PRFValues struct {
	First  []byte `json:"first"`
	Second []byte `json:"second,omitempty"`
}

// PRFInputs is the PRF extension request. A nil Eval asks the authenticator
// only to report whether PRF is supported (registration); a non-nil Eval
// requests an evaluation with the given inputs (assertion).
type PRFInputs struct {
	Eval *PRFValues `json:"eval,omitempty"`
}

// CredentialCreationOptions describes a registration ceremony.
type CredentialCreationOptions struct {
	Challenge        []byte       `json:"challenge"`
	RelyingParty     RelyingParty `json:"rp"`
	UserID           []byte       `json:"userId"`
	UserName         string       `json:"userName"`
	UserDisplayName  string       `json:"userDisplayName"`
	Algorithms       []int        `json:"algorithms"`
	Attachment       string       `json:"attachment"`
	UserVerification string       `json:"userVerification"`
	PRF              *PRFInputs   `json:"prf,omitempty"`
}

// CredentialRequestOptions describes an authentication ceremony. The
// allow-list restricts which credentials may answer.
type CredentialRequestOptions struct {
	Challenge          []byte     `json:"challenge"`
	RelyingPartyID     string     `json:"rpId"`
	AllowCredentialIDs [][]byte   `json:"allowCredentialIds"`
	UserVerification   string     `json:"userVerification"`
	PRF                *PRFInputs `json:"prf,omitempty"`
}

// CreatedCredential is the result of a successful registration ceremony.
type CreatedCredential struct {
	// ID is the raw credential id assigned by the authenticator.
	ID []byte
	// PublicKey is the raw credential public key.
	PublicKey []byte
	// PRFEnabled reports whether the authenticator enabled the PRF
	// extension for this credential.
	PRFEnabled bool
}

// AssertedCredential is the result of a successful authentication ceremony.
type AssertedCredential struct {
	// ID is the raw id of the credential that produced the assertion.
	ID []byte
	// PRFResults holds the PRF evaluation output, nil if the authenticator
	// returned none.
	PRFResults *PRFValues
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package passkey

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/socius-org/RedditHarbor/internal/crypto"
	"github.com/socius-org/RedditHarbor/models"
)

// Binding drives the registration and authentication ceremonies against an
// [Authenticator] on behalf of the vault.
type Binding struct {
	auth   Authenticator
	cipher crypto.CipherService
	rp     models.RelyingParty
}

// NewBinding constructs a Binding scoped to the given relying party.
func NewBinding(auth Authenticator, cipher crypto.CipherService, rp models.RelyingParty) *Binding {
	return &Binding{auth: auth, cipher: cipher, rp: rp}
}

// Register creates a new passkey for user. The PRF extension is requested
// with no evaluation: registration only proves PRF support. The 32-byte PRF
// salt is chosen here, by the application, independent of the ceremony, and
// is fixed for the lifetime of the passkey.
//
// Fails with ErrIdentityIncomplete before any ceremony if the user id or
// email is missing, with ErrPRFUnsupported if the authenticator did not
// enable the extension, and with ErrCeremonyCancelled / ErrCeremonyFailed
// for user dismissal and authenticator errors respectively.
func (b *Binding) Register(ctx context.Context, user models.User) (models.Passkey, error) {
	if user.UserID == "" || user.Email == "" {
		return models.Passkey{}, ErrIdentityIncomplete
	}

	challenge, err := b.cipher.GenerateChallenge()
	if err != nil {
		return models.Passkey{}, fmt.Errorf("generate challenge: %w", err)
	}

	cred, err := b.auth.MakeCredential(ctx, models.CredentialCreationOptions{
		Challenge:        challenge,
		RelyingParty:     b.rp,
		UserID:           []byte(user.UserID),
		UserName:         user.Email,
		UserDisplayName:  user.DisplayName,
		Algorithms:       []int{models.AlgES256, models.AlgRS256},
		Attachment:       models.AttachmentPlatform,
		UserVerification: models.UserVerificationRequired,
		PRF:              &models.PRFInputs{},
	})
	if err != nil {
		return models.Passkey{}, ceremonyError("registration", err)
	}
	if !cred.PRFEnabled {
		return models.Passkey{}, ErrPRFUnsupported
	}

	salt, err := b.cipher.GeneratePRFSalt()
	if err != nil {
		return models.Passkey{}, fmt.Errorf("generate PRF salt: %w", err)
	}

	return models.Passkey{
		ID:        base64.StdEncoding.EncodeToString(cred.ID),
		PublicKey: base64.StdEncoding.EncodeToString(cred.PublicKey),
		PRFSalt:   base64.StdEncoding.EncodeToString(salt),
	}, nil
}

// Authenticate re-proves possession of passkey and returns the raw PRF
// output, deterministic for the (credential, salt) pair on the same
// authenticator. The assertion is restricted to the stored credential id;
// an assertion from any other credential fails with ErrCredentialMismatch.
func (b *Binding) Authenticate(ctx context.Context, passkey models.Passkey) ([]byte, error) {
	credID, err := passkey.CredentialID()
	if err != nil {
		return nil, fmt.Errorf("decode credential id: %w", err)
	}
	salt, err := passkey.PRFSaltBytes()
	if err != nil {
		return nil, fmt.Errorf("decode PRF salt: %w", err)
	}

	challenge, err := b.cipher.GenerateChallenge()
	if err != nil {
		return nil, fmt.Errorf("generate challenge: %w", err)
	}

	asserted, err := b.auth.GetAssertion(ctx, models.CredentialRequestOptions{
		Challenge:          challenge,
		RelyingPartyID:     b.rp.ID,
		AllowCredentialIDs: [][]byte{credID},
		UserVerification:   models.UserVerificationRequired,
		PRF:                &models.PRFInputs{Eval: &models.PRFValues{First: salt}},
	})
	if err != nil {
		return nil, ceremonyError("authentication", err)
	}

	if !bytes.Equal(asserted.ID, credID) {
		return nil, ErrCredentialMismatch
	}
	if asserted.PRFResults == nil || len(asserted.PRFResults.First) == 0 {
		return nil, ErrPRFOutputMissing
	}

	return asserted.PRFResults.First, nil
}

// ceremonyError passes the package's typed errors through unchanged and
// wraps anything else as a generic ceremony failure.
func ceremonyError(stage string, err error) error {
	if errors.Is(err, ErrCeremonyCancelled) || errors.Is(err, ErrPRFUnsupported) {
		return err
	}
	return fmt.Errorf("%s %w: %v", stage, ErrCeremonyFailed, err)
}

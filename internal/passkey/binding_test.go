// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package passkey

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socius-org/RedditHarbor/internal/crypto"
	"github.com/socius-org/RedditHarbor/models"
)

var testRP = models.RelyingParty{ID: "localhost", Name: "RedditHarbor"}

func testUser() models.User {
	return models.User{UserID: "u1", Email: "a@example.com", DisplayName: "Alice"}
}

func newTestBinding(t *testing.T) (*Binding, *SoftwareAuthenticator) {
	t.Helper()
	auth, err := NewSoftwareAuthenticator("")
	require.NoError(t, err)
	return NewBinding(auth, crypto.NewCipherService(), testRP), auth
}

func TestRegister_ReturnsUsablePasskey(t *testing.T) {
	b, _ := newTestBinding(t)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)

	assert.NotEmpty(t, pk.ID)
	assert.NotEmpty(t, pk.PublicKey)

	salt, err := pk.PRFSaltBytes()
	require.NoError(t, err)
	assert.Len(t, salt, 32)

	_, err = pk.CredentialID()
	require.NoError(t, err)
}

func TestRegister_IdentityIncomplete(t *testing.T) {
	b, _ := newTestBinding(t)

	tests := []struct {
		name string
		user models.User
	}{
		{name: "missing user id", user: models.User{Email: "a@example.com"}},
		{name: "missing email", user: models.User{UserID: "u1"}},
		{name: "missing both", user: models.User{DisplayName: "Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Register(context.Background(), tt.user)
			assert.ErrorIs(t, err, ErrIdentityIncomplete)
		})
	}
}

func TestRegister_PRFUnsupported(t *testing.T) {
	b, auth := newTestBinding(t)
	auth.SupportsPRF = false

	_, err := b.Register(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrPRFUnsupported)
}

func TestRegister_UserDismissesPrompt(t *testing.T) {
	b, auth := newTestBinding(t)
	auth.DenyCeremonies = true

	_, err := b.Register(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrCeremonyCancelled)
}

func TestAuthenticate_DeterministicPRFOutput(t *testing.T) {
	b, _ := newTestBinding(t)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)

	out1, err := b.Authenticate(context.Background(), pk)
	require.NoError(t, err)
	out2, err := b.Authenticate(context.Background(), pk)
	require.NoError(t, err)

	assert.Len(t, out1, 32)
	assert.Equal(t, out1, out2, "same credential and salt must reproduce the PRF output")
}

func TestAuthenticate_DifferentSaltsDifferentOutputs(t *testing.T) {
	b, _ := newTestBinding(t)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)

	other := pk
	other.PRFSalt = "c2FsdHNhbHRzYWx0c2FsdHNhbHRzYWx0c2FsdHNhbHQ=" // different 32-byte salt

	out1, err := b.Authenticate(context.Background(), pk)
	require.NoError(t, err)
	out2, err := b.Authenticate(context.Background(), other)
	require.NoError(t, err)

	assert.NotEqual(t, out1, out2)
}

func TestAuthenticate_UnknownCredentialFails(t *testing.T) {
	b, _ := newTestBinding(t)

	_, err := b.Authenticate(context.Background(), models.Passkey{
		ID:      "bm8tc3VjaC1jcmVkZW50aWFs",
		PRFSalt: "c2FsdHNhbHRzYWx0c2FsdHNhbHRzYWx0c2FsdHNhbHQ=",
	})
	assert.ErrorIs(t, err, ErrCeremonyFailed)
}

func TestAuthenticate_CancelledContext(t *testing.T) {
	b, _ := newTestBinding(t)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Authenticate(ctx, pk)
	assert.ErrorIs(t, err, ErrCeremonyCancelled)
}

func TestSoftwareAuthenticator_PersistsCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	auth1, err := NewSoftwareAuthenticator(path)
	require.NoError(t, err)
	cipher := crypto.NewCipherService()
	b1 := NewBinding(auth1, cipher, testRP)

	pk, err := b1.Register(context.Background(), testUser())
	require.NoError(t, err)
	out1, err := b1.Authenticate(context.Background(), pk)
	require.NoError(t, err)

	// A fresh authenticator over the same file reproduces the PRF output.
	auth2, err := NewSoftwareAuthenticator(path)
	require.NoError(t, err)
	b2 := NewBinding(auth2, cipher, testRP)
	out2, err := b2.Authenticate(context.Background(), pk)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}

func TestGetAssertion_NoPRFRequestedNoPRFReturned(t *testing.T) {
	auth, err := NewSoftwareAuthenticator("")
	require.NoError(t, err)
	b := NewBinding(auth, crypto.NewCipherService(), testRP)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)
	credID, err := pk.CredentialID()
	require.NoError(t, err)

	asserted, err := auth.GetAssertion(context.Background(), models.CredentialRequestOptions{
		Challenge:          []byte{1, 2, 3},
		RelyingPartyID:     testRP.ID,
		AllowCredentialIDs: [][]byte{credID},
		UserVerification:   models.UserVerificationRequired,
	})
	require.NoError(t, err)
	assert.Nil(t, asserted.PRFResults)
}

func TestAuthenticate_PRFOutputMissing(t *testing.T) {
	auth, err := NewSoftwareAuthenticator("")
	require.NoError(t, err)
	b := NewBinding(auth, crypto.NewCipherService(), testRP)

	pk, err := b.Register(context.Background(), testUser())
	require.NoError(t, err)

	// PRF support disappears after registration (e.g. credential synced to
	// a device without the extension).
	auth.SupportsPRF = false

	_, err = b.Authenticate(context.Background(), pk)
	assert.ErrorIs(t, err, ErrPRFOutputMissing)
}

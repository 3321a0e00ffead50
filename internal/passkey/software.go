// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package passkey

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/socius-org/RedditHarbor/models"
)

// prfInputPrefix matches the salting the WebAuthn PRF extension applies
// before handing the input to the CTAP hmac-secret machinery, so PRF
// outputs line up with what a real authenticator would produce for the
// same credential secret.
var prfInputPrefix = []byte("WebAuthn PRF\x00")

// softwareCredential is one credential held by the software authenticator.
type softwareCredential struct {
	// Secret is the per-credential 32-byte random value keying the PRF.
	Secret []byte `json:"secret"`
	// PublicKey is an opaque public-key blob; the client never verifies
	// signatures, so no real key pair is kept.
	PublicKey []byte `json:"publicKey"`
	// RPID scopes the credential to a relying party.
	RPID string `json:"rpId"`
	// UserID is the user handle the credential was created for.
	UserID []byte `json:"userId"`
}

// SoftwareAuthenticator is an [Authenticator] backed by an on-disk
// credential file instead of platform hardware. It backs headless use and
// tests; its PRF is HMAC-SHA256 over the per-credential secret, which makes
// the output deterministic per (credential, salt) exactly like the
// hardware extension.
type SoftwareAuthenticator struct {
	path string

	mu          sync.Mutex
	credentials map[string]softwareCredential

	// SupportsPRF controls whether new credentials get the PRF extension.
	// Defaults to true; tests flip it to exercise the unsupported path.
	SupportsPRF bool

	// DenyCeremonies simulates the user dismissing the platform prompt
	// when set.
	DenyCeremonies bool
}

// NewSoftwareAuthenticator loads (or starts) the credential file at path.
// An empty path keeps all credentials in memory only.
func NewSoftwareAuthenticator(path string) (*SoftwareAuthenticator, error) {
	a := &SoftwareAuthenticator{
		path:        path,
		credentials: make(map[string]softwareCredential),
		SupportsPRF: true,
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	return a, nil
}

// MakeCredential implements [Authenticator].
func (a *SoftwareAuthenticator) MakeCredential(ctx context.Context, opts models.CredentialCreationOptions) (models.CreatedCredential, error) {
	if err := ctx.Err(); err != nil {
		return models.CreatedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyCancelled, err)
	}
	if a.DenyCeremonies {
		return models.CreatedCredential{}, ErrCeremonyCancelled
	}
	if len(opts.Challenge) == 0 {
		return models.CreatedCredential{}, fmt.Errorf("%w: empty challenge", ErrCeremonyFailed)
	}

	id, err := randomBlob(16)
	if err != nil {
		return models.CreatedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyFailed, err)
	}
	secret, err := randomBlob(32)
	if err != nil {
		return models.CreatedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyFailed, err)
	}
	publicKey, err := randomBlob(65)
	if err != nil {
		return models.CreatedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyFailed, err)
	}

	a.mu.Lock()
	a.credentials[base64.StdEncoding.EncodeToString(id)] = softwareCredential{
		Secret:    secret,
		PublicKey: publicKey,
		RPID:      opts.RelyingParty.ID,
		UserID:    opts.UserID,
	}
	err = a.persist()
	a.mu.Unlock()
	if err != nil {
		return models.CreatedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyFailed, err)
	}

	return models.CreatedCredential{
		ID:         id,
		PublicKey:  publicKey,
		PRFEnabled: opts.PRF != nil && a.SupportsPRF,
	}, nil
}

// GetAssertion implements [Authenticator].
func (a *SoftwareAuthenticator) GetAssertion(ctx context.Context, opts models.CredentialRequestOptions) (models.AssertedCredential, error) {
	if err := ctx.Err(); err != nil {
		return models.AssertedCredential{}, fmt.Errorf("%w: %v", ErrCeremonyCancelled, err)
	}
	if a.DenyCeremonies {
		return models.AssertedCredential{}, ErrCeremonyCancelled
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, id := range opts.AllowCredentialIDs {
		cred, ok := a.credentials[base64.StdEncoding.EncodeToString(id)]
		if !ok || cred.RPID != opts.RelyingPartyID {
			continue
		}

		out := models.AssertedCredential{ID: append([]byte(nil), id...)}
		if opts.PRF != nil && opts.PRF.Eval != nil && a.SupportsPRF {
			results := &models.PRFValues{First: evalPRF(cred.Secret, opts.PRF.Eval.First)}
			if len(opts.PRF.Eval.Second) > 0 {
				results.Second = evalPRF(cred.Secret, opts.PRF.Eval.Second)
			}
			out.PRFResults = results
		}
		return out, nil
	}

	return models.AssertedCredential{}, fmt.Errorf("%w: no matching credential", ErrCeremonyFailed)
}

// evalPRF mirrors the two-stage hashing of the real extension: the input is
// first domain-salted with the "WebAuthn PRF" prefix, then run through
// HMAC-SHA256 under the credential secret.
func evalPRF(secret, input []byte) []byte {
	salted := sha256.Sum256(append(append([]byte(nil), prfInputPrefix...), input...))
	mac := hmac.New(sha256.New, secret)
	mac.Write(salted[:])
	return mac.Sum(nil)
}

func (a *SoftwareAuthenticator) load() error {
	if a.path == "" {
		return nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read credential file: %w", err)
	}

	var creds map[string]softwareCredential
	if err = json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("decode credential file: %w", err)
	}
	if creds != nil {
		a.credentials = creds
	}
	return nil
}

func (a *SoftwareAuthenticator) persist() error {
	if a.path == "" {
		return nil
	}

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(a.credentials, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential file: %w", err)
	}
	if err = os.WriteFile(a.path, payload, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

func randomBlob(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

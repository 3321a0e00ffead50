// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/socius-org/RedditHarbor/models"
)

const (
	challengeSize = 32
	prfSaltSize   = 32
	prfOutputSize = 32
	keySize       = 32
	ivSize        = 12

	// keyDerivationInfo is the HKDF domain-separation string. Versioned:
	// bump the suffix if the derivation scheme ever changes, so old keys
	// cannot be confused with new ones.
	keyDerivationInfo = "RedditHarbor api-key vault v1"
)

// cipherService is the private implementation of [CipherService].
type cipherService struct{}

// NewCipherService constructs the production [CipherService].
func NewCipherService() CipherService {
	return &cipherService{}
}

// GenerateChallenge implements [CipherService].
func (c *cipherService) GenerateChallenge() ([]byte, error) {
	return randomBytes(challengeSize)
}

// GeneratePRFSalt implements [CipherService].
func (c *cipherService) GeneratePRFSalt() ([]byte, error) {
	return randomBytes(prfSaltSize)
}

// DeriveKey implements [CipherService]. HKDF-SHA256 with a nil salt and the
// fixed info string; the PRF output is already uniformly random keying
// material, so the extract step needs no additional salt.
func (c *cipherService) DeriveKey(prfOutput []byte) ([]byte, error) {
	if len(prfOutput) != prfOutputSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPRFOutput, len(prfOutput), prfOutputSize)
	}

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, prfOutput, nil, []byte(keyDerivationInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return key, nil
}

// Encrypt implements [CipherService].
func (c *cipherService) Encrypt(plaintext string, key []byte) (models.EncryptedData, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedData{}, err
	}

	iv, err := randomBytes(ivSize)
	if err != nil {
		return models.EncryptedData{}, err
	}

	ct := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return models.EncryptedData{
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Decrypt implements [CipherService].
func (c *cipherService) Decrypt(enc models.EncryptedData, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	ct, err := base64.StdEncoding.DecodeString(enc.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", ErrDecodeFailed, err)
	}
	iv, err := base64.StdEncoding.DecodeString(enc.IV)
	if err != nil {
		return "", fmt.Errorf("%w: iv: %v", ErrDecodeFailed, err)
	}
	if len(iv) != ivSize {
		return "", fmt.Errorf("%w: iv is %d bytes, want %d", ErrDecodeFailed, len(iv), ivSize)
	}

	pt, err := gcm.Open(nil, iv, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	return string(pt), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(key), keySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("read csprng: %w", err)
	}
	return buf, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

// Package records validates and (de)serializes the two persisted record
// shapes: the passkey record and the encrypted api key bundle.
//
// Loading is deliberately forgiving in one direction only: any malformed
// input — empty, truncated, non-JSON, wrong types, bad base64 — yields
// "absent" rather than an error, so a corrupted passkey record reads as "no
// passkey yet" and a corrupted bundle as "no stored secrets". Malformed
// data must never be treated as a usable credential. Unknown extra fields
// are accepted for forward compatibility.
package records

import (
	"encoding/base64"
	"encoding/json"

	"github.com/socius-org/RedditHarbor/models"
)

// Storage keys of the two persisted records.
const (
	PasskeyKey = "passkey"
	APIKeysKey = "apiKeys"
)

const (
	prfSaltSize = 32
	ivSize      = 12
)

// LoadPasskey parses a stored passkey record. ok is false for any input
// that does not contain a non-empty credential id and a base64 salt of
// exactly 32 bytes.
func LoadPasskey(raw string) (models.Passkey, bool) {
	var pk models.Passkey
	if err := json.Unmarshal([]byte(raw), &pk); err != nil {
		return models.Passkey{}, false
	}
	if pk.ID == "" || pk.PRFSalt == "" {
		return models.Passkey{}, false
	}
	if _, err := pk.CredentialID(); err != nil {
		return models.Passkey{}, false
	}
	salt, err := pk.PRFSaltBytes()
	if err != nil || len(salt) != prfSaltSize {
		return models.Passkey{}, false
	}
	return pk, true
}

// SerializePasskey encodes a passkey record so that it round-trips exactly
// through LoadPasskey.
func SerializePasskey(pk models.Passkey) (string, error) {
	out, err := json.Marshal(pk)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// LoadBundle parses a stored encrypted bundle. Every known field must be
// present, either null (unset) or a well-formed encrypted value; anything
// else reads as absent.
func LoadBundle(raw string) (models.EncryptedApiKeys, bool) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		return models.EncryptedApiKeys{}, false
	}

	var bundle models.EncryptedApiKeys
	fields := []struct {
		name string
		dst  **models.EncryptedData
	}{
		{models.FieldClaudeKey, &bundle.ClaudeKey},
		{models.FieldOpenAIKey, &bundle.OpenAIKey},
		{models.FieldSupabaseProjectURL, &bundle.SupabaseProjectURL},
		{models.FieldSupabaseAPIKey, &bundle.SupabaseAPIKey},
		{models.FieldOSFAPIKey, &bundle.OSFAPIKey},
	}

	for _, f := range fields {
		entry, present := entries[f.name]
		if !present {
			return models.EncryptedApiKeys{}, false
		}
		field, ok := parseField(entry)
		if !ok {
			return models.EncryptedApiKeys{}, false
		}
		*f.dst = field
	}
	return bundle, true
}

// SerializeBundle encodes an encrypted bundle so that it round-trips
// exactly through LoadBundle. Unset fields serialize as null.
func SerializeBundle(bundle models.EncryptedApiKeys) (string, error) {
	out, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseField validates one bundle entry: JSON null means unset; otherwise
// ciphertext and iv must be non-empty base64, the iv decoding to 12 bytes.
func parseField(raw json.RawMessage) (*models.EncryptedData, bool) {
	var field *models.EncryptedData
	if err := json.Unmarshal(raw, &field); err != nil {
		return nil, false
	}
	if field == nil {
		return nil, true
	}
	if field.Ciphertext == "" || field.IV == "" {
		return nil, false
	}
	if _, err := base64.StdEncoding.DecodeString(field.Ciphertext); err != nil {
		return nil, false
	}
	iv, err := base64.StdEncoding.DecodeString(field.IV)
	if err != nil || len(iv) != ivSize {
		return nil, false
	}
	return field, true
}

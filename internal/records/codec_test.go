// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package records

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socius-org/RedditHarbor/models"
)

var (
	validSalt = base64.StdEncoding.EncodeToString(make([]byte, 32))
	validIV   = base64.StdEncoding.EncodeToString(make([]byte, 12))
	validCT   = base64.StdEncoding.EncodeToString([]byte("ciphertext-bytes"))
)

func validPasskeyJSON() string {
	return `{"id":"Y3JlZC1pZA==","publicKey":"cHViLWtleQ==","prfSalt":"` + validSalt + `"}`
}

func validBundleJSON() string {
	entry := `{"ciphertext":"` + validCT + `","iv":"` + validIV + `"}`
	return `{"claudeKey":` + entry + `,"openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null}`
}

func TestLoadPasskey_Valid(t *testing.T) {
	pk, ok := LoadPasskey(validPasskeyJSON())
	require.True(t, ok)
	assert.Equal(t, "Y3JlZC1pZA==", pk.ID)
	assert.Equal(t, validSalt, pk.PRFSalt)
}

func TestLoadPasskey_MalformedInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "empty object", raw: "{}"},
		{name: "json null", raw: "null"},
		{name: "not json", raw: "definitely not json"},
		{name: "truncated", raw: `{"id":"Y3JlZC1pZA=="`},
		{name: "wrong type id", raw: `{"id":42,"prfSalt":"` + validSalt + `"}`},
		{name: "missing salt", raw: `{"id":"Y3JlZC1pZA=="}`},
		{name: "salt not base64", raw: `{"id":"Y3JlZC1pZA==","prfSalt":"***"}`},
		{name: "salt wrong length", raw: `{"id":"Y3JlZC1pZA==","prfSalt":"c2hvcnQ="}`},
		{name: "id not base64", raw: `{"id":"%%%","prfSalt":"` + validSalt + `"}`},
		{name: "array", raw: `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := LoadPasskey(tt.raw)
			assert.False(t, ok)
		})
	}
}

func TestLoadPasskey_ExtraFieldsAccepted(t *testing.T) {
	raw := `{"id":"Y3JlZC1pZA==","publicKey":"cHViLWtleQ==","prfSalt":"` + validSalt + `","futureField":true}`
	pk, ok := LoadPasskey(raw)
	require.True(t, ok)
	assert.Equal(t, "Y3JlZC1pZA==", pk.ID)
}

func TestSerializePasskey_RoundTrip(t *testing.T) {
	original := models.Passkey{ID: "Y3JlZC1pZA==", PublicKey: "cHViLWtleQ==", PRFSalt: validSalt}

	raw, err := SerializePasskey(original)
	require.NoError(t, err)

	loaded, ok := LoadPasskey(raw)
	require.True(t, ok)
	assert.Equal(t, original, loaded)
}

func TestLoadBundle_Valid(t *testing.T) {
	bundle, ok := LoadBundle(validBundleJSON())
	require.True(t, ok)
	require.NotNil(t, bundle.ClaudeKey)
	assert.Equal(t, validCT, bundle.ClaudeKey.Ciphertext)
	assert.Nil(t, bundle.OpenAIKey)
	assert.Nil(t, bundle.OSFAPIKey)
}

func TestLoadBundle_MalformedInputs(t *testing.T) {
	entry := `{"ciphertext":"` + validCT + `","iv":"` + validIV + `"}`

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "empty object", raw: "{}"},
		{name: "json null", raw: "null"},
		{name: "not json", raw: "oops"},
		{name: "missing field key", raw: `{"claudeKey":` + entry + `}`},
		{
			name: "entry wrong type",
			raw:  `{"claudeKey":"plaintext?","openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null}`,
		},
		{
			name: "entry missing iv",
			raw:  `{"claudeKey":{"ciphertext":"` + validCT + `"},"openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null}`,
		},
		{
			name: "iv not base64",
			raw:  `{"claudeKey":{"ciphertext":"` + validCT + `","iv":"!!"},"openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null}`,
		},
		{
			name: "iv wrong length",
			raw:  `{"claudeKey":{"ciphertext":"` + validCT + `","iv":"c2hvcnQ="},"openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := LoadBundle(tt.raw)
			assert.False(t, ok)
		})
	}
}

func TestLoadBundle_ExtraFieldsAccepted(t *testing.T) {
	entry := `{"ciphertext":"` + validCT + `","iv":"` + validIV + `","keyVersion":2}`
	raw := `{"claudeKey":` + entry + `,"openaiKey":null,"supabaseProjectUrl":null,"supabaseApiKey":null,"osfApiKey":null,"newProviderKey":null}`

	bundle, ok := LoadBundle(raw)
	require.True(t, ok)
	require.NotNil(t, bundle.ClaudeKey)
}

func TestSerializeBundle_RoundTrip(t *testing.T) {
	original := models.EncryptedApiKeys{
		ClaudeKey: &models.EncryptedData{Ciphertext: validCT, IV: validIV},
		OSFAPIKey: &models.EncryptedData{Ciphertext: validCT, IV: validIV},
	}

	raw, err := SerializeBundle(original)
	require.NoError(t, err)

	loaded, ok := LoadBundle(raw)
	require.True(t, ok)
	assert.True(t, original.Equal(&loaded))
	assert.Nil(t, loaded.OpenAIKey)
}

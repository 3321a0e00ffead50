// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

import "strings"

// Field names of the api key bundle as they appear in the persisted record
// and in form-level validation errors.
const (
	FieldClaudeKey          = "claudeKey"
	FieldOpenAIKey          = "openaiKey"
	FieldSupabaseProjectURL = "supabaseProjectUrl"
	FieldSupabaseAPIKey     = "supabaseApiKey"
	FieldOSFAPIKey          = "osfApiKey"
)

// ApiKeys is the plaintext credential bundle. It exists in memory only and
// is never persisted in this form. An empty string means "unset".
type ApiKeys struct {
	// ClaudeKey is the Anthropic API key used for document generation.
	ClaudeKey string `json:"claudeKey"`

	// OpenAIKey is the OpenAI API key used for document generation.
	OpenAIKey string `json:"openaiKey"`

	// SupabaseProjectURL is the base URL of the Supabase project used for
	// collected data storage. Must be a well-formed http(s) URL when set.
	SupabaseProjectURL string `json:"supabaseProjectUrl"`

	// SupabaseAPIKey is the Supabase service key.
	SupabaseAPIKey string `json:"supabaseApiKey"`

	// OSFAPIKey is the Open Science Framework personal access token.
	OSFAPIKey string `json:"osfApiKey"`
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field. Trimming happens once, before validation, so the values that are
// validated are exactly the values that get encrypted and saved.
func (k ApiKeys) Trimmed() ApiKeys {
	return ApiKeys{
		ClaudeKey:          strings.TrimSpace(k.ClaudeKey),
		OpenAIKey:          strings.TrimSpace(k.OpenAIKey),
		SupabaseProjectURL: strings.TrimSpace(k.SupabaseProjectURL),
		SupabaseAPIKey:     strings.TrimSpace(k.SupabaseAPIKey),
		OSFAPIKey:          strings.TrimSpace(k.OSFAPIKey),
	}
}

// HasAIProviderKey reports whether at least one AI provider credential
// (Claude or OpenAI) is configured. A bundle without one cannot be saved.
func (k ApiKeys) HasAIProviderKey() bool {
	return k.ClaudeKey != "" || k.OpenAIKey != ""
}

// EncryptedApiKeys is the persisted form of the bundle: one entry per field,
// nil meaning the field is unset. Empty fields are stored as nil rather than
// as an encryption of "" so that no ciphertext is produced (or IV consumed)
// for a value that does not exist.
type EncryptedApiKeys struct {
	ClaudeKey          *EncryptedData `json:"claudeKey"`
	OpenAIKey          *EncryptedData `json:"openaiKey"`
	SupabaseProjectURL *EncryptedData `json:"supabaseProjectUrl"`
	SupabaseAPIKey     *EncryptedData `json:"supabaseApiKey"`
	OSFAPIKey          *EncryptedData `json:"osfApiKey"`
}

// Equal reports structural equality of two encrypted bundles. The vault uses
// it to detect that the persisted bundle changed out from under an unlocked
// session (e.g. a concurrent save from another process).
func (e *EncryptedApiKeys) Equal(other *EncryptedApiKeys) bool {
	if e == nil || other == nil {
		return e == other
	}
	return fieldEqual(e.ClaudeKey, other.ClaudeKey) &&
		fieldEqual(e.OpenAIKey, other.OpenAIKey) &&
		fieldEqual(e.SupabaseProjectURL, other.SupabaseProjectURL) &&
		fieldEqual(e.SupabaseAPIKey, other.SupabaseAPIKey) &&
		fieldEqual(e.OSFAPIKey, other.OSFAPIKey)
}

func fieldEqual(a, b *EncryptedData) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Ciphertext == b.Ciphertext && a.IV == b.IV
}

// ApiKeysValidationResult carries validation outcomes as data, not errors.
// FieldErrors is keyed by the json field name; FormErrors apply to the
// bundle as a whole (e.g. the "at least one AI provider key" rule).
type ApiKeysValidationResult struct {
	FieldErrors map[string][]string
	FormErrors  []string
}

// Valid reports whether the bundle passed validation.
func (r ApiKeysValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.FormErrors) == 0
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

// Package validators holds the form validation rules. Validation outcomes
// are data, not errors: callers render them next to the offending fields.
package validators

import (
	"net/url"

	"github.com/socius-org/RedditHarbor/models"
)

const (
	msgAIProviderRequired = "Provide at least one AI provider key (Claude or OpenAI)."
	msgSupabaseURLInvalid = "Must be a valid http(s) URL."
)

// ValidateApiKeys checks a credential form. Values are trimmed before the
// rules run, matching what gets persisted. An empty result means the form
// may be saved.
func ValidateApiKeys(keys models.ApiKeys) models.ApiKeysValidationResult {
	keys = keys.Trimmed()

	result := models.ApiKeysValidationResult{
		FieldErrors: make(map[string][]string),
	}

	if !keys.HasAIProviderKey() {
		result.FormErrors = append(result.FormErrors, msgAIProviderRequired)
	}

	if keys.SupabaseProjectURL != "" && !validHTTPURL(keys.SupabaseProjectURL) {
		result.FieldErrors[models.FieldSupabaseProjectURL] = append(
			result.FieldErrors[models.FieldSupabaseProjectURL], msgSupabaseURLInvalid)
	}

	return result
}

func validHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

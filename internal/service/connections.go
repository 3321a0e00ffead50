// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/models"
)

// Provider names as shown in connection test results.
const (
	ProviderClaude   = "Claude"
	ProviderOpenAI   = "OpenAI"
	ProviderSupabase = "Supabase"
	ProviderOSF      = "OSF"
)

const anthropicVersion = "2023-06-01"

// ConnectionResult is the outcome of probing one provider.
type ConnectionResult struct {
	Provider string
	OK       bool
	Detail   string
}

// Endpoints holds the base URLs of the probed providers. Tests point them
// at local servers.
type Endpoints struct {
	Anthropic string
	OpenAI    string
	OSF       string
}

// DefaultEndpoints returns the production provider URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Anthropic: "https://api.anthropic.com",
		OpenAI:    "https://api.openai.com",
		OSF:       "https://api.osf.io",
	}
}

// connectionService probes providers with lightweight authenticated reads;
// nothing is created or mutated on the provider side.
type connectionService struct {
	client    *resty.Client
	endpoints Endpoints
	log       *logger.Logger
}

// NewConnectionService returns a [ConnectionService] using the given HTTP
// client.
func NewConnectionService(client *resty.Client, endpoints Endpoints, log *logger.Logger) ConnectionService {
	return &connectionService{client: client, endpoints: endpoints, log: log}
}

func (s *connectionService) TestAll(ctx context.Context, keys models.ApiKeys) []ConnectionResult {
	var results []ConnectionResult
	if keys.ClaudeKey != "" {
		results = append(results, s.TestClaude(ctx, keys.ClaudeKey))
	}
	if keys.OpenAIKey != "" {
		results = append(results, s.TestOpenAI(ctx, keys.OpenAIKey))
	}
	if keys.SupabaseProjectURL != "" && keys.SupabaseAPIKey != "" {
		results = append(results, s.TestSupabase(ctx, keys.SupabaseProjectURL, keys.SupabaseAPIKey))
	}
	if keys.OSFAPIKey != "" {
		results = append(results, s.TestOSF(ctx, keys.OSFAPIKey))
	}
	return results
}

func (s *connectionService) TestClaude(ctx context.Context, apiKey string) ConnectionResult {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		Get(s.endpoints.Anthropic + "/v1/models")
	return s.result(ProviderClaude, resp, err)
}

func (s *connectionService) TestOpenAI(ctx context.Context, apiKey string) ConnectionResult {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		Get(s.endpoints.OpenAI + "/v1/models")
	return s.result(ProviderOpenAI, resp, err)
}

func (s *connectionService) TestSupabase(ctx context.Context, projectURL, apiKey string) ConnectionResult {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		Get(strings.TrimRight(projectURL, "/") + "/rest/v1/")
	return s.result(ProviderSupabase, resp, err)
}

func (s *connectionService) TestOSF(ctx context.Context, apiKey string) ConnectionResult {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		Get(s.endpoints.OSF + "/v2/users/me/")
	return s.result(ProviderOSF, resp, err)
}

func (s *connectionService) result(provider string, resp *resty.Response, err error) ConnectionResult {
	if err != nil {
		s.log.Warn().Err(err).Str("provider", provider).Msg("connection test failed")
		return ConnectionResult{Provider: provider, Detail: err.Error()}
	}
	if resp.IsError() {
		s.log.Warn().Int("status", resp.StatusCode()).Str("provider", provider).Msg("connection test rejected")
		return ConnectionResult{
			Provider: provider,
			Detail:   fmt.Sprintf("%s (check the key)", resp.Status()),
		}
	}
	return ConnectionResult{Provider: provider, OK: true, Detail: "Connected"}
}

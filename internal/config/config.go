// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package config

import (
	"os"
	"path/filepath"
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the passkey relying
	// party identity and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the location of all client-side state: the key-value
	// store, the project database, the session token and the software
	// authenticator credentials.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds settings for outbound provider requests.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// RelyingPartyID is the WebAuthn relying party id the passkey is
	// scoped to.
	// Env: APP_RP_ID
	RelyingPartyID string `env:"RP_ID"`

	// RelyingPartyName is the human-readable relying party name shown in
	// authenticator prompts.
	// Env: APP_RP_NAME
	RelyingPartyName string `env:"RP_NAME"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage holds the directory all client-side state lives under.
type Storage struct {
	// DataDir is the directory holding the key-value store file, the
	// project database, the session token and the software authenticator
	// credential file.
	// Env: STORAGE_DATA_DIR
	DataDir string `env:"DATA_DIR"`
}

// Adapter holds settings for the outbound HTTP client.
type Adapter struct {
	// RequestTimeout is the maximum duration of a single provider request
	// (e.g. "10s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads and merges the application configuration from
// all available sources in the following priority order (first source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			RelyingPartyID:   "localhost",
			RelyingPartyName: "RedditHarbor",
		},
		Storage: Storage{
			DataDir: defaultDataDir(),
		},
		Adapter: Adapter{
			RequestTimeout: 10 * time.Second,
		},
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "redditharbor-data"
	}
	return filepath.Join(base, "redditharbor")
}

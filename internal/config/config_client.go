// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// ClientApp holds application-level client settings derived from the shared
// structured config.
type ClientApp struct {
	// RelyingPartyID is the WebAuthn relying party id.
	RelyingPartyID string
	// RelyingPartyName is the relying party name shown in prompts.
	RelyingPartyName string
	// Version is the application version string.
	Version string
}

// ClientStorage holds the locations of all client-side state files.
type ClientStorage struct {
	// DataDir is the directory all state files live under.
	DataDir string
}

// ClientAdapter holds network settings used by the outbound HTTP client.
type ClientAdapter struct {
	// RequestTimeout is the default timeout for provider requests.
	RequestTimeout time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Storage contains client storage settings.
	Storage ClientStorage
	// Adapter contains outbound request settings.
	Adapter ClientAdapter
}

// StoreFile is the path of the key-value store file holding the passkey and
// api key records.
func (cfg *ClientConfig) StoreFile() string {
	return filepath.Join(cfg.Storage.DataDir, "store.json")
}

// DatabaseFile is the path of the SQLite project database.
func (cfg *ClientConfig) DatabaseFile() string {
	return filepath.Join(cfg.Storage.DataDir, "projects.db")
}

// SessionFile is the path of the stored session token.
func (cfg *ClientConfig) SessionFile() string {
	return filepath.Join(cfg.Storage.DataDir, "session")
}

// CredentialsFile is the path of the software authenticator credential file.
func (cfg *ClientConfig) CredentialsFile() string {
	return filepath.Join(cfg.Storage.DataDir, "credentials.json")
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting
// [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			RelyingPartyID:   cfg.App.RelyingPartyID,
			RelyingPartyName: cfg.App.RelyingPartyName,
			Version:          cfg.App.Version,
		},
		Storage: ClientStorage{
			DataDir: cfg.Storage.DataDir,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
	}

	return clientCfg, clientCfg.validate()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package config

// validate checks that the final client configuration satisfies all
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *ClientConfig) validate() error {
	if cfg.App.RelyingPartyID == "" || cfg.App.RelyingPartyName == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DataDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_RP_ID", "harbor.example.org")
	t.Setenv("APP_RP_NAME", "Harbor")
	t.Setenv("STORAGE_DATA_DIR", "/var/lib/harbor")
	t.Setenv("ADAPTER_REQUEST_TIMEOUT", "30s")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "harbor.example.org", cfg.App.RelyingPartyID)
	assert.Equal(t, "Harbor", cfg.App.RelyingPartyName)
	assert.Equal(t, "/var/lib/harbor", cfg.Storage.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{
		"app": {"rp_id": "harbor.example.org", "rp_name": "Harbor", "version": "1.2.3"},
		"storage": {"data_dir": "/var/lib/harbor"},
		"adapter": {"request_timeout": "45s"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "harbor.example.org", cfg.App.RelyingPartyID)
	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "/var/lib/harbor", cfg.Storage.DataDir)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalJSON([]byte(`"1h"`)))
	assert.Equal(t, time.Hour, time.Duration(d))

	require.NoError(t, d.UnmarshalJSON([]byte(`1500000000`)))
	assert.Equal(t, 1500*time.Millisecond, time.Duration(d))

	assert.Error(t, d.UnmarshalJSON([]byte(`"not-a-duration"`)))
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			App:     ClientApp{RelyingPartyID: "localhost", RelyingPartyName: "RedditHarbor"},
			Storage: ClientStorage{DataDir: "/tmp/harbor"},
			Adapter: ClientAdapter{RequestTimeout: 10 * time.Second},
		}
	}

	assert.NoError(t, valid().validate())

	cfg := valid()
	cfg.App.RelyingPartyID = ""
	assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)

	cfg = valid()
	cfg.Storage.DataDir = ""
	assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)

	cfg = valid()
	cfg.Adapter.RequestTimeout = 0
	assert.ErrorIs(t, cfg.validate(), ErrInvalidAdapterConfigs)
}

func TestStoreFilePaths(t *testing.T) {
	cfg := &ClientConfig{Storage: ClientStorage{DataDir: "/var/lib/harbor"}}

	assert.Equal(t, filepath.Join("/var/lib/harbor", "store.json"), cfg.StoreFile())
	assert.Equal(t, filepath.Join("/var/lib/harbor", "projects.db"), cfg.DatabaseFile())
	assert.Equal(t, filepath.Join("/var/lib/harbor", "session"), cfg.SessionFile())
	assert.Equal(t, filepath.Join("/var/lib/harbor", "credentials.json"), cfg.CredentialsFile())
}

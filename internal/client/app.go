// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

// Package client wires the client-side components together: storage, the
// passkey binding, the credential vault, services and the terminal UI.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/socius-org/RedditHarbor/internal/config"
	"github.com/socius-org/RedditHarbor/internal/crypto"
	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/internal/passkey"
	"github.com/socius-org/RedditHarbor/internal/service"
	"github.com/socius-org/RedditHarbor/internal/store"
	"github.com/socius-org/RedditHarbor/internal/tui"
	"github.com/socius-org/RedditHarbor/internal/vault"
	"github.com/socius-org/RedditHarbor/models"
)

type App struct {
	cfg       *config.ClientConfig
	log       *logger.Logger
	buildInfo *models.AppBuildInfo

	kv       *store.FileKV
	db       *sql.DB
	vault    *vault.Vault
	projects service.ProjectService
	conns    service.ConnectionService
	identity service.IdentityService
}

// NewApp builds the full client dependency graph from cfg.
func NewApp(cfg *config.ClientConfig, buildInfo *models.AppBuildInfo, log *logger.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	kv, err := store.NewFileKV(cfg.StoreFile(), log)
	if err != nil {
		return nil, fmt.Errorf("create key-value store: %w", err)
	}

	db, err := store.OpenSQLite(cfg.DatabaseFile())
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("open project database: %w", err)
	}

	authenticator, err := passkey.NewSoftwareAuthenticator(cfg.CredentialsFile())
	if err != nil {
		kv.Close()
		db.Close()
		return nil, fmt.Errorf("open authenticator credentials: %w", err)
	}

	cipher := crypto.NewCipherService()
	binding := passkey.NewBinding(authenticator, cipher, models.RelyingParty{
		ID:   cfg.App.RelyingPartyID,
		Name: cfg.App.RelyingPartyName,
	})

	httpClient := resty.New().SetTimeout(cfg.Adapter.RequestTimeout)

	return &App{
		cfg:       cfg,
		log:       log,
		buildInfo: buildInfo,
		kv:        kv,
		db:        db,
		vault:     vault.New(binding, cipher, kv, log),
		projects:  service.NewProjectService(store.NewProjectRepository(db), log),
		conns:     service.NewConnectionService(httpClient, service.DefaultEndpoints(), log),
		identity:  service.NewIdentityService(cfg.SessionFile()),
	}, nil
}

// Run resolves the researcher identity and hands control to the UI.
func (a *App) Run(ctx context.Context) error {
	user, err := a.identity.CurrentUser()
	if err != nil {
		if !errors.Is(err, service.ErrNoSession) && !errors.Is(err, service.ErrSessionInvalid) {
			return fmt.Errorf("resolve identity: %w", err)
		}
		// Without an auth provider session the client still works against a
		// stable local identity; the passkey is scoped to this machine
		// either way.
		user = models.User{UserID: "local", Email: "local@redditharbor", DisplayName: "Local researcher"}
		a.log.Info().Msg("no session token found, using local identity")
	}

	ui := tui.New(a.vault, a.projects, a.conns, user, a.buildInfo, a.log)
	return ui.Run(ctx)
}

// Close releases storage resources.
func (a *App) Close() {
	a.vault.Close()
	if err := a.kv.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close key-value store")
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close project database")
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/internal/service"
	"github.com/socius-org/RedditHarbor/internal/vault"
	"github.com/socius-org/RedditHarbor/models"
)

// TUI is the terminal front end over the vault and project services.
type TUI struct {
	vault       *vault.Vault
	projects    service.ProjectService
	connections service.ConnectionService
	user        models.User
	buildInfo   *models.AppBuildInfo
	log         *logger.Logger
}

// New assembles the terminal UI.
func New(v *vault.Vault, projects service.ProjectService, connections service.ConnectionService,
	user models.User, buildInfo *models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{
		vault:       v,
		projects:    projects,
		connections: connections,
		user:        user,
		buildInfo:   buildInfo,
		log:         log,
	}
}

// Run blocks until the user quits.
func (t *TUI) Run(ctx context.Context) error {
	changes := make(chan struct{}, 1)
	unsubscribe := t.vault.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	model := newAppModel(ctx, t.vault, t.projects, t.connections, t.user, t.buildInfo, changes)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

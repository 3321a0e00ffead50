// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/socius-org/RedditHarbor/internal/passkey"
	"github.com/socius-org/RedditHarbor/internal/service"
	"github.com/socius-org/RedditHarbor/internal/vault"
	"github.com/socius-org/RedditHarbor/models"
)

type screen int

const (
	screenDashboard screen = iota
	screenProjectForm
	screenRegister
	screenUnlock
	screenApiKeys
)

type appModel struct {
	ctx         context.Context
	vault       *vault.Vault
	projects    service.ProjectService
	connections service.ConnectionService
	user        models.User
	buildInfo   *models.AppBuildInfo
	changes     <-chan struct{}

	screen  screen
	list    []models.Project
	idx     int
	loading bool
	status  string
	errMsg  string
	spinner spinner.Model

	registering bool
	registerErr string
	unlocking   bool
	unlockErr   string

	projectForm projectForm
	keysForm    apiKeysForm
}

func newAppModel(ctx context.Context, v *vault.Vault, projects service.ProjectService,
	connections service.ConnectionService, user models.User, buildInfo *models.AppBuildInfo,
	changes <-chan struct{}) appModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return appModel{
		ctx:         ctx,
		vault:       v,
		projects:    projects,
		connections: connections,
		user:        user,
		buildInfo:   buildInfo,
		changes:     changes,
		loading:     true,
		spinner:     s,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadProjects(), m.waitVaultChange(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case vaultChangedMsg:
		// State is read from the vault on every render; the message only
		// exists to trigger one.
		return m, m.waitVaultChange()

	case projectsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list = msg.projects
		if m.idx >= len(m.list) {
			m.idx = len(m.list) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case projectSavedMsg:
		m.projectForm.saving = false
		if msg.err != nil {
			if errors.Is(msg.err, service.ErrProjectNameRequired) {
				m.projectForm.errMsg = "Name is required."
			} else {
				m.projectForm.errMsg = msg.err.Error()
			}
			return m, nil
		}
		m.screen = screenDashboard
		m.status = "Project saved"
		m.loading = true
		return m, tea.Batch(m.cmdLoadProjects(), m.cmdClearStatus())

	case projectDeletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = "Project deleted"
		m.loading = true
		return m, tea.Batch(m.cmdLoadProjects(), m.cmdClearStatus())

	case registerDoneMsg:
		m.registering = false
		if msg.err != nil {
			m.registerErr = registerMessage(msg.err)
			return m, nil
		}
		// Fresh passkey, nothing stored yet; go straight into the unlock
		// so the user lands in the key form.
		m.screen = screenUnlock
		m.unlockErr = ""
		m.unlocking = true
		return m, m.cmdUnlock()

	case unlockDoneMsg:
		m.unlocking = false
		if msg.err != nil {
			m.unlockErr = unlockMessage(msg.err)
			return m, nil
		}
		keys, err := m.vault.Bundle()
		if err != nil {
			m.unlockErr = err.Error()
			return m, nil
		}
		m.keysForm = newApiKeysForm(keys)
		m.screen = screenApiKeys
		return m, nil

	case keysSavedMsg:
		m.keysForm.saving = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if !msg.result.Valid() {
			// Inputs keep their values; only the error annotations change.
			m.keysForm.fieldErrors = msg.result.FieldErrors
			m.keysForm.formErrors = msg.result.FormErrors
			return m, nil
		}
		m.keysForm.fieldErrors = nil
		m.keysForm.formErrors = nil
		m.screen = screenDashboard
		m.status = "API keys saved"
		return m, m.cmdClearStatus()

	case connectionsTestedMsg:
		m.keysForm.testing = false
		m.keysForm.results = msg.results
		return m, nil

	case copiedMsg:
		m.status = "Copied to clipboard"
		return m, m.cmdClearStatus()

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.screen {
	case screenProjectForm:
		return m.updateProjectForm(keyMsg)
	case screenRegister:
		return m.updateRegister(keyMsg)
	case screenUnlock:
		return m.updateUnlock(keyMsg)
	case screenApiKeys:
		return m.updateApiKeys(keyMsg)
	default:
		return m.updateDashboard(keyMsg)
	}
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.list)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.newItem):
		m.projectForm = newProjectForm(nil)
		m.screen = screenProjectForm
	case key.Matches(msg, keys.edit):
		if project, ok := m.current(); ok {
			m.projectForm = newProjectForm(&project)
			m.screen = screenProjectForm
		}
	case key.Matches(msg, keys.delete):
		if project, ok := m.current(); ok {
			return m, m.cmdDeleteProject(project.ID)
		}
	case key.Matches(msg, keys.phase):
		if project, ok := m.current(); ok {
			return m, m.cmdSetPhase(project.ID, nextPhase(project.Phase))
		}
	case key.Matches(msg, keys.copy):
		if project, ok := m.current(); ok {
			return m, cmdCopy(project.ID)
		}
	case key.Matches(msg, keys.keys):
		switch m.vault.State() {
		case vault.StateNoPasskey:
			m.registerErr = ""
			m.screen = screenRegister
		case vault.StateUnlocked:
			keys, err := m.vault.Bundle()
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.keysForm = newApiKeysForm(keys)
			m.screen = screenApiKeys
		default:
			m.unlockErr = ""
			m.unlocking = true
			m.screen = screenUnlock
			return m, m.cmdUnlock()
		}
	}
	return m, nil
}

func (m appModel) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenDashboard
	case key.Matches(msg, keys.enter):
		if m.registering {
			return m, nil
		}
		m.registering = true
		m.registerErr = ""
		return m, m.cmdRegister()
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateUnlock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenDashboard
	case key.Matches(msg, keys.enter):
		if m.unlocking {
			return m, nil
		}
		m.unlockErr = ""
		m.unlocking = true
		return m, m.cmdUnlock()
	}
	return m, nil
}

func (m appModel) updateProjectForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenDashboard
		return m, nil
	case key.Matches(msg, keys.tab):
		m.projectForm.setFocus(m.projectForm.focus + 1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.projectForm.setFocus(m.projectForm.focus - 1)
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.projectForm.saving {
			return m, nil
		}
		m.projectForm.saving = true
		m.projectForm.errMsg = ""
		return m, m.cmdSaveProject(m.projectForm)
	}

	var cmd tea.Cmd
	m.projectForm.inputs[m.projectForm.focus], cmd = m.projectForm.inputs[m.projectForm.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateApiKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenDashboard
		return m, nil
	case key.Matches(msg, keys.tab):
		m.keysForm.setFocus(m.keysForm.focus + 1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.keysForm.setFocus(m.keysForm.focus - 1)
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.keysForm.saving {
			return m, nil
		}
		m.keysForm.saving = true
		return m, m.cmdSaveKeys(m.keysForm.toApiKeys())
	case msg.String() == "ctrl+t":
		if m.keysForm.testing {
			return m, nil
		}
		m.keysForm.testing = true
		m.keysForm.results = nil
		return m, m.cmdTestConnections(m.keysForm.toApiKeys())
	}

	var cmd tea.Cmd
	m.keysForm.inputs[m.keysForm.focus], cmd = m.keysForm.inputs[m.keysForm.focus].Update(msg)
	return m, cmd
}

func (m appModel) current() (models.Project, bool) {
	if len(m.list) == 0 || m.idx < 0 || m.idx >= len(m.list) {
		return models.Project{}, false
	}
	return m.list[m.idx], true
}

func nextPhase(phase string) string {
	for i, p := range models.Phases {
		if p == phase {
			return models.Phases[(i+1)%len(models.Phases)]
		}
	}
	return models.PhaseDesign
}

// Commands.

func (m appModel) cmdLoadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.projects.List(m.ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m appModel) cmdSaveProject(form projectForm) tea.Cmd {
	return func() tea.Msg {
		var err error
		if form.editingID == "" {
			_, err = m.projects.Create(m.ctx, form.inputs[0].Value(), form.inputs[1].Value())
		} else {
			_, err = m.projects.Update(m.ctx, form.editingID, form.inputs[0].Value(), form.inputs[1].Value())
		}
		return projectSavedMsg{err: err}
	}
}

func (m appModel) cmdDeleteProject(id string) tea.Cmd {
	return func() tea.Msg {
		return projectDeletedMsg{err: m.projects.Delete(m.ctx, id)}
	}
}

func (m appModel) cmdSetPhase(id, phase string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.projects.SetPhase(m.ctx, id, phase)
		return projectSavedMsg{err: err}
	}
}

func (m appModel) cmdRegister() tea.Cmd {
	return func() tea.Msg {
		_, err := m.vault.Register(m.ctx, m.user)
		return registerDoneMsg{err: err}
	}
}

func (m appModel) cmdUnlock() tea.Cmd {
	return func() tea.Msg {
		attempt, err := m.vault.Unlock(m.ctx)
		if err != nil {
			return unlockDoneMsg{err: err}
		}
		return unlockDoneMsg{err: attempt.Wait(m.ctx)}
	}
}

func (m appModel) cmdSaveKeys(keys models.ApiKeys) tea.Cmd {
	return func() tea.Msg {
		result, err := m.vault.Save(keys)
		return keysSavedMsg{result: result, err: err}
	}
}

func (m appModel) cmdTestConnections(keys models.ApiKeys) tea.Cmd {
	return func() tea.Msg {
		return connectionsTestedMsg{results: m.connections.TestAll(m.ctx, keys.Trimmed())}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return clearStatusMsg{}
		}
		return copiedMsg{}
	}
}

func (m appModel) cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m appModel) waitVaultChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-m.changes:
			return vaultChangedMsg{}
		}
	}
}

func registerMessage(err error) string {
	switch {
	case errors.Is(err, passkey.ErrCeremonyCancelled):
		return "Passkey prompt dismissed. Press enter to try again."
	case errors.Is(err, passkey.ErrPRFUnsupported):
		return "This device's authenticator does not support the PRF extension needed for key storage."
	case errors.Is(err, passkey.ErrIdentityIncomplete):
		return "Sign in first; a passkey needs your account identity."
	case errors.Is(err, vault.ErrPasskeyExists):
		return "A passkey is already registered on this device."
	default:
		return err.Error()
	}
}

func unlockMessage(err error) string {
	switch {
	case errors.Is(err, passkey.ErrCeremonyCancelled):
		return "Passkey prompt dismissed. Press enter to try again."
	case errors.Is(err, passkey.ErrPRFUnsupported), errors.Is(err, passkey.ErrPRFOutputMissing):
		return "This device's authenticator does not support the PRF extension needed for key storage."
	default:
		return err.Error()
	}
}

// Views.

func (m appModel) View() string {
	switch m.screen {
	case screenProjectForm:
		return m.projectForm.View()
	case screenRegister:
		return m.viewRegister()
	case screenUnlock:
		return m.viewUnlock()
	case screenApiKeys:
		return m.keysForm.View()
	default:
		return m.viewDashboard()
	}
}

func (m appModel) viewDashboard() string {
	var b strings.Builder
	header := "RedditHarbor"
	if m.buildInfo != nil && m.buildInfo.Version != "" {
		header += " " + m.buildInfo.Version
	}
	b.WriteString(titleStyle.Render(header))
	if m.user.Email != "" {
		b.WriteString(helpStyle.Render("  " + m.user.Email))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("vault: " + m.vault.State().String()))
	b.WriteString("\n\n")

	if banner := m.aiProviderBanner(); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString("Loading projects...\n")
	case len(m.list) == 0:
		b.WriteString("No projects yet. Press n to create one.\n")
	default:
		for i, project := range m.list {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			line := fmt.Sprintf("%s%-30s [%s]", cursor, fitText(project.Name, 30), project.Phase)
			if project.Description != "" {
				line += "  " + helpStyle.Render(fitText(project.Description, 40))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n new  e edit  d delete  p phase  c copy id  a api keys  q quit"))
	return b.String()
}

// aiProviderBanner nags until at least one AI provider key is stored, the
// way the web dashboard pins its setup banner.
func (m appModel) aiProviderBanner() string {
	switch m.vault.State() {
	case vault.StateNoPasskey:
		return "Set up a passkey and add your API keys to start collecting. Press a."
	case vault.StateUnlocked:
		keys, err := m.vault.Bundle()
		if err == nil && !keys.HasAIProviderKey() {
			return "Add a Claude or OpenAI API key to start collecting. Press a."
		}
	}
	return ""
}

func (m appModel) viewRegister() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Set up a passkey"))
	b.WriteString("\n\n")
	b.WriteString("Your API keys are encrypted with a key held by this device's\n")
	b.WriteString("authenticator. They can only be read after you approve a passkey\n")
	b.WriteString("prompt; nothing usable ever reaches a server.\n\n")
	if m.registering {
		b.WriteString(m.spinner.View() + " Waiting for the authenticator...\n")
	} else {
		b.WriteString("Press enter to create the passkey.\n")
	}
	if m.registerErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.registerErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter create  esc back"))
	return b.String()
}

func (m appModel) viewUnlock() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Unlock API keys"))
	b.WriteString("\n\n")
	if m.unlocking {
		b.WriteString(m.spinner.View() + " Waiting for your passkey...\n")
	} else if m.unlockErr != "" {
		b.WriteString(errorStyle.Render("! " + m.unlockErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter retry  esc back"))
	return b.String()
}

// fitText truncates on rune boundaries so a clipped multi-byte name still
// renders as valid UTF-8.
func fitText(v string, max int) string {
	if max <= 0 || utf8.RuneCountInString(v) <= max {
		return v
	}
	runes := []rune(v)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

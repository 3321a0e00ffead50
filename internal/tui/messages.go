package tui

import (
	"github.com/socius-org/RedditHarbor/internal/service"
	"github.com/socius-org/RedditHarbor/models"
)

type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

type projectSavedMsg struct {
	err error
}

type projectDeletedMsg struct {
	err error
}

type registerDoneMsg struct {
	err error
}

type unlockDoneMsg struct {
	err error
}

type keysSavedMsg struct {
	result models.ApiKeysValidationResult
	err    error
}

type connectionsTestedMsg struct {
	results []service.ConnectionResult
}

type vaultChangedMsg struct{}

type copiedMsg struct{}

type clearStatusMsg struct{}

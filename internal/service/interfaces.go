package service

import (
	"context"

	"github.com/socius-org/RedditHarbor/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ProjectService manages the research project lifecycle.
type ProjectService interface {
	Create(ctx context.Context, name, description string) (models.Project, error)
	Get(ctx context.Context, id string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id, name, description string) (models.Project, error)
	SetPhase(ctx context.Context, id, phase string) (models.Project, error)
	Delete(ctx context.Context, id string) error
}

// ConnectionService verifies stored credentials against their providers.
type ConnectionService interface {
	// TestAll probes every configured credential and returns one result per
	// probe, in a stable order. Unset fields are skipped.
	TestAll(ctx context.Context, keys models.ApiKeys) []ConnectionResult

	TestClaude(ctx context.Context, apiKey string) ConnectionResult
	TestOpenAI(ctx context.Context, apiKey string) ConnectionResult
	TestSupabase(ctx context.Context, projectURL, apiKey string) ConnectionResult
	TestOSF(ctx context.Context, apiKey string) ConnectionResult
}

// IdentityService resolves the signed-in researcher from the local session.
type IdentityService interface {
	// CurrentUser returns the identity carried by the stored session token.
	CurrentUser() (models.User, error)

	// SetSessionToken stores a session token for later CurrentUser calls.
	SetSessionToken(token string) error

	// ClearSession removes the stored session token.
	ClearSession() error
}

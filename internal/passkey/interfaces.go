// Package passkey wraps the platform public-key-credential ceremonies used
// to create a passkey and later re-prove possession of it, surfacing the
// PRF extension output that the rest of the application turns into an
// encryption key.
//
// The package retains no state between calls: it is a pure ceremony
// wrapper. The authenticator itself is abstracted behind [Authenticator] so
// the binding can run against a platform integration or the bundled
// software authenticator interchangeably.
package passkey

//go:generate mockgen -source=interfaces.go -destination=../mock/authenticator_mock.go -package=mock

import (
	"context"

	"github.com/socius-org/RedditHarbor/models"
)

// Authenticator models the two WebAuthn ceremonies of a platform
// authenticator, PRF extension included. Both calls block until the user
// completes or dismisses the platform prompt, bounded only by ctx; user
// dismissal surfaces as ErrCeremonyCancelled.
type Authenticator interface {
	// MakeCredential runs the registration ceremony and returns the new
	// credential. PRFEnabled reports extension support; registration never
	// evaluates the PRF.
	MakeCredential(ctx context.Context, opts models.CredentialCreationOptions) (models.CreatedCredential, error)

	// GetAssertion runs the authentication ceremony restricted to the
	// allow-listed credentials, evaluating the PRF when requested.
	GetAssertion(ctx context.Context, opts models.CredentialRequestOptions) (models.AssertedCredential, error)
}

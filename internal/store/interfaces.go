package store

import (
	"context"

	"github.com/socius-org/RedditHarbor/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValue is the client-side string storage shared between processes of
// the same user (the localStorage analog). Writes are read-after-write
// consistent within the writing process; cross-process propagation is
// best-effort via change notification. No cross-process locking is
// provided: concurrent writers race with last-write-wins semantics.
type KeyValue interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores value under key and notifies subscribers of that key.
	Set(key, value string) error

	// Delete removes key and notifies its subscribers.
	Delete(key string) error

	// Subscribe registers fn to run whenever the value under key changes,
	// whether by a local Set/Delete or by another process writing the
	// backing file. Notifications are delivered asynchronously. The
	// returned function cancels the subscription.
	Subscribe(key string, fn func()) (unsubscribe func())

	// Close stops the change watcher and releases resources.
	Close() error
}

// ProjectRepository is the persistence contract for research projects.
type ProjectRepository interface {
	Create(ctx context.Context, project models.Project) error
	Get(ctx context.Context, id string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project models.Project) error
	Delete(ctx context.Context, id string) error
}

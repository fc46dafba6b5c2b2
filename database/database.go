// Package database is the document store boundary. Every struct leaving it
// has been decoded into a typed model and validated; every read-modify-write
// goes through a Mutate method whose callback runs inside one transaction,
// with callback errors aborting the write.
package database

import (
	"context"

	"chronolens/models"
)

type SceneStore interface {
	Create(ctx context.Context, scene *models.Scene) error
	Get(ctx context.Context, id string) (*models.Scene, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]models.Scene, error)
	// Mutate loads the scene, applies fn and persists the result atomically.
	// When fn returns an error nothing is written and the error comes back
	// unchanged. UpdatedAt is refreshed on every successful mutation.
	Mutate(ctx context.Context, id string, fn func(*models.Scene) error) (*models.Scene, error)
}

type QuotaStore interface {
	// Mutate runs fn against the user's counter in one transaction, starting
	// from a zero counter when none exists yet. Same abort contract as
	// SceneStore.Mutate.
	Mutate(ctx context.Context, uid string, fn func(*models.QuotaCounter) error) (*models.QuotaCounter, error)
}

type ListingStore interface {
	Create(ctx context.Context, listing *models.PublicListing) error
	Get(ctx context.Context, publicID string) (*models.PublicListing, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Stores bundles every collection the handlers need.
type Stores struct {
	Scenes   SceneStore
	Quotas   QuotaStore
	Listings ListingStore
	Users    UserStore
}

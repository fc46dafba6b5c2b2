package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"chronolens/apperr"
	"chronolens/models"
)

// In-memory store implementations. They back the test suite and local runs
// without a Mongo deployment, and keep the same contracts as the Mongo
// versions: callers get copies, and a Mutate whose callback fails writes
// nothing.

type MemoryScenes struct {
	mu     sync.Mutex
	scenes map[string]*models.Scene
}

func NewMemoryScenes() *MemoryScenes {
	return &MemoryScenes{scenes: make(map[string]*models.Scene)}
}

func (s *MemoryScenes) Create(_ context.Context, scene *models.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes[scene.ID] = scene.Clone()
	return nil
}

func (s *MemoryScenes) Get(_ context.Context, id string) (*models.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scene, ok := s.scenes[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "scene %s not found", id)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene.Clone(), nil
}

func (s *MemoryScenes) ListByOwner(_ context.Context, ownerUID string) ([]models.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Scene
	for _, scene := range s.scenes {
		if scene.OwnerUID == ownerUID {
			out = append(out, *scene.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryScenes) Mutate(_ context.Context, id string, fn func(*models.Scene) error) (*models.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.scenes[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "scene %s not found", id)
	}
	if err := stored.Validate(); err != nil {
		return nil, err
	}

	working := stored.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	s.scenes[id] = working
	return working.Clone(), nil
}

type MemoryQuotas struct {
	mu       sync.Mutex
	counters map[string]models.QuotaCounter
}

func NewMemoryQuotas() *MemoryQuotas {
	return &MemoryQuotas{counters: make(map[string]models.QuotaCounter)}
}

func (q *MemoryQuotas) Mutate(_ context.Context, uid string, fn func(*models.QuotaCounter) error) (*models.QuotaCounter, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	working, ok := q.counters[uid]
	if !ok {
		working = models.QuotaCounter{UID: uid}
	}
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	q.counters[uid] = working
	result := working
	return &result, nil
}

// Stored returns the persisted counter, if any. Tests use it to assert what
// an aborted charge left behind.
func (q *MemoryQuotas) Stored(uid string) (models.QuotaCounter, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	counter, ok := q.counters[uid]
	return counter, ok
}

// Seed installs a counter directly, bypassing the transaction path.
func (q *MemoryQuotas) Seed(counter models.QuotaCounter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.counters[counter.UID] = counter
}

type MemoryListings struct {
	mu       sync.Mutex
	listings map[string]*models.PublicListing
}

func NewMemoryListings() *MemoryListings {
	return &MemoryListings{listings: make(map[string]*models.PublicListing)}
}

func (l *MemoryListings) Create(_ context.Context, listing *models.PublicListing) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *listing
	l.listings[listing.PublicID] = &copied
	return nil
}

func (l *MemoryListings) Get(_ context.Context, publicID string) (*models.PublicListing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	listing, ok := l.listings[publicID]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "listing %s not found", publicID)
	}
	copied := *listing
	return &copied, nil
}

// Len reports how many listings exist. Tests use it to check the publish
// short-circuit.
func (l *MemoryListings) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.listings)
}

type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by uid
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]*models.User)}
}

func (u *MemoryUsers) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if user.Email != "" {
		for _, existing := range u.users {
			if existing.Email == user.Email {
				return apperr.New(apperr.InvalidArgument, "user already exists")
			}
		}
	}
	copied := *user
	u.users[user.UID] = &copied
	return nil
}

func (u *MemoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

package profile

import (
	"context"
	"sync"

	"github.com/onnwee/quorum/internal/interaction"
)

// Reader provides point-in-time profile reads for the recommendation
// scorers. Reads tolerate skew against concurrent ledger writes; there is
// no cross-read atomicity requirement.
type Reader interface {
	// Get retrieves a user's profile. Returns (nil, nil) when the user has
	// no profile yet.
	Get(ctx context.Context, userID string) (*Profile, error)

	// ListOthers returns the profiles of every user except the given one.
	ListOthers(ctx context.Context, userID string) ([]*Profile, error)
}

// InMemoryStore is an in-memory profile store. Thread-safe via RWMutex.
// It backs unit tests and the in-memory ledger.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryStore creates an empty in-memory profile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[string]*Profile),
	}
}

// Get retrieves a copy of a user's profile, or (nil, nil) if absent.
func (s *InMemoryStore) Get(ctx context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// ListOthers returns copies of every profile except userID's.
func (s *InMemoryStore) ListOthers(ctx context.Context, userID string) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	others := make([]*Profile, 0, len(s.profiles))
	for id, p := range s.profiles {
		if id == userID {
			continue
		}
		others = append(others, p.Clone())
	}
	return others, nil
}

// Apply folds an interaction into the user's profile, creating the profile
// lazily on the first qualifying action.
func (s *InMemoryStore) Apply(ctx context.Context, userID, contentID string, tags []string, action interaction.Action) error {
	if _, ok := Weight(action); !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = New(userID)
		s.profiles[userID] = p
	}
	p.Apply(contentID, tags, action)
	return nil
}

// Put stores a profile directly. Test seeding helper.
func (s *InMemoryStore) Put(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p.Clone()
}

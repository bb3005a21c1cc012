package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/interaction"
	"github.com/onnwee/quorum/internal/reputation"
)

// ProfileApplier folds one interaction into a user's interest profile.
// *profile.InMemoryStore satisfies it.
type ProfileApplier interface {
	Apply(ctx context.Context, userID, contentID string, tags []string, action interaction.Action) error
}

// InMemoryLedger is an in-memory implementation of Ledger. Thread-safe via
// mutex; one lock scope per recorded interaction stands in for the SQL
// transaction so side effects stay atomic with the ledger entry.
type InMemoryLedger struct {
	mu         sync.Mutex
	records    map[string]*interaction.Record
	reputation map[string]int
	profiles   ProfileApplier
	contents   content.Repository
	now        func() time.Time
}

// NewInMemoryLedger creates a new in-memory ledger writing profile updates
// through the given applier and resolving tags from the given repository.
func NewInMemoryLedger(profiles ProfileApplier, contents content.Repository) *InMemoryLedger {
	return &InMemoryLedger{
		records:    make(map[string]*interaction.Record),
		reputation: make(map[string]int),
		profiles:   profiles,
		contents:   contents,
		now:        time.Now,
	}
}

func dedupKey(req interaction.Request) string {
	// Null byte separators keep "a b" + "c" and "a" + "b c" apart.
	return req.UserID + "\x00" + req.TargetID + "\x00" + string(req.Action) + "\x00" + string(req.TargetType)
}

// Record upserts the interaction and applies reputation and profile effects.
func (l *InMemoryLedger) Record(ctx context.Context, req interaction.Request) (*interaction.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tags, err := resolveTags(ctx, l.contents, req)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Profile update runs first inside the lock scope: if it fails the
	// ledger entry and reputation stay untouched, mirroring a rollback.
	if err := l.profiles.Apply(ctx, req.UserID, req.TargetID, tags, req.Action); err != nil {
		return nil, err
	}

	now := l.now()
	key := dedupKey(req)
	rec, exists := l.records[key]
	if exists {
		rec.UpdatedAt = now
	} else {
		rec = &interaction.Record{
			ID:         uuid.New().String(),
			UserID:     req.UserID,
			Action:     req.Action,
			TargetID:   req.TargetID,
			TargetType: req.TargetType,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		l.records[key] = rec
	}

	delta := reputation.Compute(req.Action, req.TargetType)
	for userID, points := range reputation.Adjustments(delta, req.UserID, req.AuthorID) {
		l.reputation[userID] += points
	}

	copied := *rec
	return &copied, nil
}

// Reputation returns a user's accumulated reputation points.
func (l *InMemoryLedger) Reputation(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reputation[userID]
}

// Count returns the number of live ledger entries.
func (l *InMemoryLedger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

package content

import (
	"context"
	"sync"
)

// Repository defines the read interface the recommendation core consumes.
type Repository interface {
	// GetByID retrieves a single question. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*Item, error)

	// ListAll returns every question with its tags and counters.
	ListAll(ctx context.Context) ([]*Item, error)

	// GetByIDs returns the questions for the given ids, skipping missing ones.
	GetByIDs(ctx context.Context, ids []string) ([]*Item, error)

	// ParentQuestionTags resolves the tag set for an answer transitively
	// from its parent question. Returns ErrNotFound for unknown answers.
	ParentQuestionTags(ctx context.Context, answerID string) ([]string, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu      sync.RWMutex
	items   map[string]*Item
	order   []string
	answers map[string]string // answerID -> parent questionID
}

// NewInMemoryRepository creates an empty in-memory content repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:   make(map[string]*Item),
		answers: make(map[string]string),
	}
}

// Put stores a question, preserving insertion order for ListAll.
func (r *InMemoryRepository) Put(item *Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	copied := *item
	copied.Tags = append([]string(nil), item.Tags...)
	r.items[item.ID] = &copied
}

// PutAnswer records an answer's parent question for tag resolution.
func (r *InMemoryRepository) PutAnswer(answerID, questionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[answerID] = questionID
}

// GetByID retrieves a single question.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *item
	copied.Tags = append([]string(nil), item.Tags...)
	return &copied, nil
}

// ListAll returns every question in insertion order.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Item, 0, len(r.order))
	for _, id := range r.order {
		item := r.items[id]
		copied := *item
		copied.Tags = append([]string(nil), item.Tags...)
		items = append(items, &copied)
	}
	return items, nil
}

// GetByIDs returns the questions for the given ids, skipping missing ones.
func (r *InMemoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		copied := *item
		copied.Tags = append([]string(nil), item.Tags...)
		items = append(items, &copied)
	}
	return items, nil
}

// ParentQuestionTags resolves an answer's tags from its parent question.
func (r *InMemoryRepository) ParentQuestionTags(ctx context.Context, answerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	questionID, ok := r.answers[answerID]
	if !ok {
		return nil, ErrNotFound
	}
	item, ok := r.items[questionID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), item.Tags...), nil
}

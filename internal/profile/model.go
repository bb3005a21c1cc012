// Package profile maintains per-user interest profiles: a tag-weight vector
// accumulated from interactions plus the set of content a user has touched.
// Profiles are the read model for the recommendation scorers; the
// interaction ledger is their only writer.
package profile

import (
	"sort"

	"github.com/onnwee/quorum/internal/interaction"
)

// Weight returns the interest weight contributed by one occurrence of an
// action, and whether the action contributes to profiles at all.
//
// Weight table (per tag, per event):
//
//	view +1, answer +5, upvote +2, downvote -1,
//	bookmark +3, post +10, unbookmark -3
//
// Actions outside the table (edit, delete, search) do not touch profiles.
func Weight(action interaction.Action) (float64, bool) {
	switch action {
	case interaction.ActionView:
		return 1, true
	case interaction.ActionAnswer:
		return 5, true
	case interaction.ActionUpvote:
		return 2, true
	case interaction.ActionDownvote:
		return -1, true
	case interaction.ActionBookmark:
		return 3, true
	case interaction.ActionPost:
		return 10, true
	case interaction.ActionUnbookmark:
		return -3, true
	default:
		return 0, false
	}
}

// Profile is one user's accumulated interest state.
// Tag weights are unbounded and may go negative; the item set only grows.
type Profile struct {
	UserID string             `json:"user_id"`
	Tags   map[string]float64 `json:"tags"`
	items  map[string]struct{}
}

// New creates an empty profile for a user.
func New(userID string) *Profile {
	return &Profile{
		UserID: userID,
		Tags:   make(map[string]float64),
		items:  make(map[string]struct{}),
	}
}

// Apply folds one interaction into the profile: each tag gains the action's
// weight and the content id joins the item set. Non-qualifying actions are
// a no-op. Repeat membership in the item set has no effect.
func (p *Profile) Apply(contentID string, tags []string, action interaction.Action) {
	weight, ok := Weight(action)
	if !ok {
		return
	}
	if p.Tags == nil {
		p.Tags = make(map[string]float64)
	}
	for _, tag := range tags {
		p.Tags[tag] += weight
	}
	p.addItem(contentID)
}

func (p *Profile) addItem(contentID string) {
	if contentID == "" {
		return
	}
	if p.items == nil {
		p.items = make(map[string]struct{})
	}
	p.items[contentID] = struct{}{}
}

// HasItem reports whether the user has touched the given content.
func (p *Profile) HasItem(contentID string) bool {
	_, ok := p.items[contentID]
	return ok
}

// Items returns the touched content ids in sorted order.
func (p *Profile) Items() []string {
	ids := make([]string, 0, len(p.items))
	for id := range p.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetItems replaces the item set. Used when loading a profile from storage.
func (p *Profile) SetItems(ids []string) {
	p.items = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		p.items[id] = struct{}{}
	}
}

// Clone returns a deep copy of the profile. Stores hand out clones so
// callers can never mutate shared state.
func (p *Profile) Clone() *Profile {
	c := New(p.UserID)
	for tag, weight := range p.Tags {
		c.Tags[tag] = weight
	}
	for id := range p.items {
		c.items[id] = struct{}{}
	}
	return c
}

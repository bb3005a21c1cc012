package recommend

import (
	"context"
	"math"
	"testing"

	"github.com/onnwee/quorum/internal/profile"
)

func putProfile(store *profile.InMemoryStore, userID string, tags map[string]float64, items ...string) {
	p := profile.New(userID)
	p.Tags = tags
	p.SetItems(items)
	store.Put(p)
}

// TestCollaborativeScore tests similarity-weighted accumulation across
// other users.
func TestCollaborativeScore(t *testing.T) {
	ctx := context.Background()
	profiles := profile.NewInMemoryStore()

	putProfile(profiles, "u1", map[string]float64{"go": 2, "rust": 2}, "q1")
	// Identical direction: similarity 1.
	putProfile(profiles, "u2", map[string]float64{"go": 4, "rust": 4}, "q2", "q3")
	// Same direction again: q2 gets reinforced.
	putProfile(profiles, "u3", map[string]float64{"go": 1, "rust": 1}, "q2")

	scorer := &Collaborative{Profiles: profiles}
	scores, err := scorer.Score(ctx, "u1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	got := scoreMap(scores)
	if math.Abs(got["q2"]-2) > 1e-9 {
		t.Errorf("q2 score = %f, want 2 (reinforced by two similar users)", got["q2"])
	}
	if math.Abs(got["q3"]-1) > 1e-9 {
		t.Errorf("q3 score = %f, want 1", got["q3"])
	}
	if scores[0].ContentID != "q2" {
		t.Errorf("scores ordered %v, want q2 first", scores)
	}
}

// TestCollaborativeExcludesSeenItems tests that questions the target user
// already touched never appear, however similar the other user is.
func TestCollaborativeExcludesSeenItems(t *testing.T) {
	ctx := context.Background()
	profiles := profile.NewInMemoryStore()

	putProfile(profiles, "u1", map[string]float64{"go": 2}, "q1")
	putProfile(profiles, "u2", map[string]float64{"go": 2}, "q1", "q2")

	scorer := &Collaborative{Profiles: profiles}
	scores, err := scorer.Score(ctx, "u1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	got := scoreMap(scores)
	if _, ok := got["q1"]; ok {
		t.Error("q1 is already in the target user's items and must be excluded")
	}
	if _, ok := got["q2"]; !ok {
		t.Error("q2 is unseen and should be recommended")
	}
}

// TestCollaborativeSkipsDissimilarUsers tests that users with zero or
// negative similarity contribute nothing.
func TestCollaborativeSkipsDissimilarUsers(t *testing.T) {
	ctx := context.Background()
	profiles := profile.NewInMemoryStore()

	putProfile(profiles, "u1", map[string]float64{"go": 2})
	// Orthogonal interests: similarity 0.
	putProfile(profiles, "u2", map[string]float64{"python": 5}, "q1")
	// Opposite interests: similarity -1.
	putProfile(profiles, "u3", map[string]float64{"go": -2}, "q2")

	scorer := &Collaborative{Profiles: profiles}
	scores, err := scorer.Score(ctx, "u1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("dissimilar users contributed scores: %v", scores)
	}
}

// TestCollaborativeNoProfile tests that a target user without a profile
// accumulates nothing: their zero vector is similar to nobody.
func TestCollaborativeNoProfile(t *testing.T) {
	ctx := context.Background()
	profiles := profile.NewInMemoryStore()
	putProfile(profiles, "u2", map[string]float64{"go": 5}, "q1")

	scorer := &Collaborative{Profiles: profiles}
	scores, err := scorer.Score(ctx, "u1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("profile-less user accumulated scores: %v", scores)
	}
}

package recommend

import (
	"context"
	"math"
	"testing"

	"github.com/onnwee/quorum/internal/content"
)

// TestPopularityScore tests normalization against corpus maxima.
func TestPopularityScore(t *testing.T) {
	ctx := context.Background()
	contents := content.NewInMemoryRepository()
	contents.Put(&content.Item{ID: "q1", Tags: []string{"go"}, Upvotes: 10, Answers: 4, Views: 100})
	contents.Put(&content.Item{ID: "q2", Tags: []string{"go"}, Upvotes: 0, Answers: 0, Views: 0})
	contents.Put(&content.Item{ID: "q3", Tags: []string{"go"}, Upvotes: 5, Answers: 2, Views: 50})

	scorer := &Popularity{Contents: contents}
	scores, err := scorer.Score(ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("popularity produced %d scores, want one per item", len(scores))
	}

	got := scoreMap(scores)
	// q1 is the maximum on every axis: 0.5 + 0.3 + 0.2.
	if math.Abs(got["q1"]-1.0) > 1e-9 {
		t.Errorf("q1 score = %f, want 1.0", got["q1"])
	}
	// q2 scores 0 on every axis but still appears.
	if math.Abs(got["q2"]) > 1e-9 {
		t.Errorf("q2 score = %f, want 0", got["q2"])
	}
	// q3 sits at half of each maximum.
	if math.Abs(got["q3"]-0.5) > 1e-9 {
		t.Errorf("q3 score = %f, want 0.5", got["q3"])
	}
}

// TestPopularityUpvoteComponent tests the upvote component in isolation:
// with upvotes [0, 10], the leader earns exactly the upvote weight.
func TestPopularityUpvoteComponent(t *testing.T) {
	ctx := context.Background()
	contents := content.NewInMemoryRepository()
	contents.Put(&content.Item{ID: "q1", Upvotes: 10})
	contents.Put(&content.Item{ID: "q2", Upvotes: 0})

	scorer := &Popularity{Contents: contents}
	scores, err := scorer.Score(ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	got := scoreMap(scores)
	if math.Abs(got["q1"]-0.5) > 1e-9 {
		t.Errorf("q1 score = %f, want 0.5 (full upvote component)", got["q1"])
	}
	if math.Abs(got["q2"]) > 1e-9 {
		t.Errorf("q2 score = %f, want 0", got["q2"])
	}
}

// TestPopularityEmptyCorpus tests that an empty corpus yields no scores and
// no division problems.
func TestPopularityEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	scorer := &Popularity{Contents: content.NewInMemoryRepository()}
	scores, err := scorer.Score(ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("empty corpus produced scores: %v", scores)
	}
}

// TestPopularityAllZeroCounters tests the divide-by-zero floor: items with
// zero counters everywhere all score 0.
func TestPopularityAllZeroCounters(t *testing.T) {
	ctx := context.Background()
	contents := content.NewInMemoryRepository()
	contents.Put(&content.Item{ID: "q1"})
	contents.Put(&content.Item{ID: "q2"})

	scorer := &Popularity{Contents: contents}
	scores, err := scorer.Score(ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for _, s := range scores {
		if s.Value != 0 {
			t.Errorf("%s score = %f, want 0", s.ContentID, s.Value)
		}
	}
}

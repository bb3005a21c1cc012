package profile

import (
	"context"
	"math"
	"testing"

	"github.com/onnwee/quorum/internal/interaction"
)

// TestWeight tests the action weight table.
func TestWeight(t *testing.T) {
	tests := []struct {
		name       string
		action     interaction.Action
		want       float64
		qualifying bool
	}{
		{name: "view", action: interaction.ActionView, want: 1, qualifying: true},
		{name: "answer", action: interaction.ActionAnswer, want: 5, qualifying: true},
		{name: "upvote", action: interaction.ActionUpvote, want: 2, qualifying: true},
		{name: "downvote", action: interaction.ActionDownvote, want: -1, qualifying: true},
		{name: "bookmark", action: interaction.ActionBookmark, want: 3, qualifying: true},
		{name: "post", action: interaction.ActionPost, want: 10, qualifying: true},
		{name: "unbookmark", action: interaction.ActionUnbookmark, want: -3, qualifying: true},
		{name: "edit does not qualify", action: interaction.ActionEdit, qualifying: false},
		{name: "delete does not qualify", action: interaction.ActionDelete, qualifying: false},
		{name: "search does not qualify", action: interaction.ActionSearch, qualifying: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Weight(tt.action)
			if ok != tt.qualifying {
				t.Fatalf("Weight(%q) qualifying = %v, want %v", tt.action, ok, tt.qualifying)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Weight(%q) = %f, want %f", tt.action, got, tt.want)
			}
		})
	}
}

// TestProfileApply tests interest accumulation across successive actions.
func TestProfileApply(t *testing.T) {
	p := New("u1")

	// A view then an upvote on a {go, rust} question accumulates 1+2 per tag.
	p.Apply("q1", []string{"go", "rust"}, interaction.ActionView)
	p.Apply("q1", []string{"go", "rust"}, interaction.ActionUpvote)

	if got := p.Tags["go"]; got != 3 {
		t.Errorf("tags[go] = %f, want 3", got)
	}
	if got := p.Tags["rust"]; got != 3 {
		t.Errorf("tags[rust] = %f, want 3", got)
	}
	if items := p.Items(); len(items) != 1 || items[0] != "q1" {
		t.Errorf("items = %v, want [q1]", items)
	}
}

// TestProfileApplyNegativeWeights tests that weights go negative and the
// item set never shrinks.
func TestProfileApplyNegativeWeights(t *testing.T) {
	p := New("u1")
	p.Apply("q1", []string{"go"}, interaction.ActionDownvote)
	p.Apply("q1", []string{"go"}, interaction.ActionUnbookmark)

	if got := p.Tags["go"]; got != -4 {
		t.Errorf("tags[go] = %f, want -4", got)
	}
	if !p.HasItem("q1") {
		t.Error("negative actions must still add the item to the set")
	}
}

// TestProfileApplyNonQualifying tests that non-qualifying actions are no-ops.
func TestProfileApplyNonQualifying(t *testing.T) {
	p := New("u1")
	p.Apply("q1", []string{"go"}, interaction.ActionSearch)
	p.Apply("q1", []string{"go"}, interaction.ActionEdit)

	if len(p.Tags) != 0 {
		t.Errorf("tags = %v, want empty", p.Tags)
	}
	if len(p.Items()) != 0 {
		t.Errorf("items = %v, want empty", p.Items())
	}
}

// TestInMemoryStoreLazyCreation tests that profiles appear on the first
// qualifying action only.
func TestInMemoryStoreLazyCreation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Apply(ctx, "u1", "q1", []string{"go"}, interaction.ActionSearch); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	p, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Fatal("non-qualifying action must not create a profile")
	}

	if err := store.Apply(ctx, "u1", "q1", []string{"go"}, interaction.ActionView); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	p, err = store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p == nil {
		t.Fatal("qualifying action must create a profile")
	}
	if p.Tags["go"] != 1 {
		t.Errorf("tags[go] = %f, want 1", p.Tags["go"])
	}
}

// TestInMemoryStoreIsolation tests that returned profiles are copies.
func TestInMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if err := store.Apply(ctx, "u1", "q1", []string{"go"}, interaction.ActionView); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	p, _ := store.Get(ctx, "u1")
	p.Tags["go"] = 100
	p.Apply("q2", []string{"rust"}, interaction.ActionPost)

	fresh, _ := store.Get(ctx, "u1")
	if fresh.Tags["go"] != 1 {
		t.Errorf("store state leaked through returned copy: tags[go] = %f", fresh.Tags["go"])
	}
	if fresh.HasItem("q2") {
		t.Error("store state leaked through returned copy: unexpected item q2")
	}
}

// TestInMemoryStoreListOthers tests exclusion of the target user.
func TestInMemoryStoreListOthers(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	for _, userID := range []string{"u1", "u2", "u3"} {
		if err := store.Apply(ctx, userID, "q1", []string{"go"}, interaction.ActionView); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	others, err := store.ListOthers(ctx, "u2")
	if err != nil {
		t.Fatalf("ListOthers: %v", err)
	}
	if len(others) != 2 {
		t.Fatalf("ListOthers returned %d profiles, want 2", len(others))
	}
	for _, p := range others {
		if p.UserID == "u2" {
			t.Error("ListOthers must exclude the target user")
		}
	}
}

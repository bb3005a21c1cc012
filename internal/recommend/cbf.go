package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/profile"
)

// ContentBased scores questions by cosine similarity between the user's
// interest tag vector and each question's tag-indicator vector.
type ContentBased struct {
	Profiles profile.Reader
	Contents content.Repository
}

// Score returns the content-based scores for a user, descending. Questions
// without tags are skipped (their similarity is undefined) and zero-scoring
// questions are dropped. A user without a profile scores everything 0.
func (s *ContentBased) Score(ctx context.Context, userID string) ([]Score, error) {
	userTags := map[string]float64{}
	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cbf: failed to load profile: %w", err)
	}
	if p != nil {
		userTags = p.Tags
	}

	items, err := s.Contents.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cbf: failed to list content: %w", err)
	}

	var scores []Score
	for _, item := range items {
		if len(item.Tags) == 0 {
			continue
		}
		keys := tagUnion(item.Tags, userTags)
		userVec := make([]float64, len(keys))
		itemVec := make([]float64, len(keys))
		for i, tag := range keys {
			userVec[i] = userTags[tag]
			if item.HasTag(tag) {
				itemVec[i] = 1
			}
		}
		if sim := CosineSimilarity(userVec, itemVec); sim > 0 {
			scores = append(scores, Score{ContentID: item.ID, Value: sim})
		}
	}

	sortScores(scores)
	return scores, nil
}

// tagUnion returns the sorted union of an item's tag set and the keys of a
// weight map.
func tagUnion(itemTags []string, weights map[string]float64) []string {
	seen := make(map[string]struct{}, len(itemTags)+len(weights))
	for _, tag := range itemTags {
		seen[tag] = struct{}{}
	}
	for tag := range weights {
		seen[tag] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for tag := range seen {
		keys = append(keys, tag)
	}
	sort.Strings(keys)
	return keys
}

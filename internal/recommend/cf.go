package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/onnwee/quorum/internal/profile"
)

// Collaborative scores questions touched by similar users. Each other
// user's whole item set contributes their user-to-user cosine similarity;
// several similar users touching the same question reinforce it.
type Collaborative struct {
	Profiles profile.Reader
}

// Score returns the collaborative scores for a user, descending. Questions
// already in the target user's item set are excluded, as are contributions
// from users whose similarity is not positive.
func (s *Collaborative) Score(ctx context.Context, userID string) ([]Score, error) {
	target, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cf: failed to load profile: %w", err)
	}
	targetTags := map[string]float64{}
	if target != nil {
		targetTags = target.Tags
	}

	others, err := s.Profiles.ListOthers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cf: failed to list profiles: %w", err)
	}

	accumulated := make(map[string]float64)
	for _, other := range others {
		sim := userSimilarity(targetTags, other.Tags)
		if sim <= 0 {
			continue
		}
		for _, contentID := range other.Items() {
			if target != nil && target.HasItem(contentID) {
				continue
			}
			accumulated[contentID] += sim
		}
	}

	scores := make([]Score, 0, len(accumulated))
	for contentID, value := range accumulated {
		scores = append(scores, Score{ContentID: contentID, Value: value})
	}
	sortScores(scores)
	return scores, nil
}

// userSimilarity computes cosine similarity between two users' tag weight
// maps over the union of their tag keys.
func userSimilarity(a, b map[string]float64) float64 {
	seen := make(map[string]struct{}, len(a)+len(b))
	for tag := range a {
		seen[tag] = struct{}{}
	}
	for tag := range b {
		seen[tag] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for tag := range seen {
		keys = append(keys, tag)
	}
	sort.Strings(keys)

	vecA := make([]float64, len(keys))
	vecB := make([]float64, len(keys))
	for i, tag := range keys {
		vecA[i] = a[tag]
		vecB[i] = b[tag]
	}
	return CosineSimilarity(vecA, vecB)
}

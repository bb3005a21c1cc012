package recommend

import (
	"context"
	"fmt"

	"github.com/onnwee/quorum/internal/content"
)

// Popularity weights for blending normalized engagement counters.
const (
	popularityUpvoteWeight = 0.5
	popularityAnswerWeight = 0.3
	popularityViewWeight   = 0.2
)

// Popularity scores every question by its global engagement, independent of
// any user.
type Popularity struct {
	Contents content.Repository
}

// Score normalizes each counter against the corpus maximum (floored at 1 so
// an all-zero corpus divides cleanly) and blends upvotes, answers, and
// views 0.5/0.3/0.2. Every question gets a score; nothing is filtered here.
func (s *Popularity) Score(ctx context.Context) ([]Score, error) {
	items, err := s.Contents.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("popularity: failed to list content: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	maxUpvotes, maxAnswers, maxViews := 1, 1, 1
	for _, item := range items {
		if item.Upvotes > maxUpvotes {
			maxUpvotes = item.Upvotes
		}
		if item.Answers > maxAnswers {
			maxAnswers = item.Answers
		}
		if item.Views > maxViews {
			maxViews = item.Views
		}
	}

	scores := make([]Score, 0, len(items))
	for _, item := range items {
		value := popularityUpvoteWeight*(float64(item.Upvotes)/float64(maxUpvotes)) +
			popularityAnswerWeight*(float64(item.Answers)/float64(maxAnswers)) +
			popularityViewWeight*(float64(item.Views)/float64(maxViews))
		scores = append(scores, Score{ContentID: item.ID, Value: value})
	}
	sortScores(scores)
	return scores, nil
}

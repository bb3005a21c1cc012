// Package ledger records user interactions and applies their side effects.
// Recording an interaction upserts the deduplicated ledger entry, adjusts
// reputation, and folds the event into the actor's interest profile. All
// three happen inside one transaction scope so a failure never leaves
// reputation or interest weights without the matching ledger entry.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/interaction"
	"github.com/onnwee/quorum/internal/profile"
)

// ErrTransactionFailed is returned when the interaction transaction cannot
// be completed. The caller may retry the whole operation; the upsert is
// idempotent on the dedup key.
var ErrTransactionFailed = errors.New("interaction transaction failed")

// Ledger records interactions with their reputation and profile side effects.
type Ledger interface {
	// Record upserts the interaction identified by
	// (user, target, action, target type). A repeated identical action
	// re-stamps the existing entry; side effects are applied either way.
	Record(ctx context.Context, req interaction.Request) (*interaction.Record, error)
}

// resolveTags determines the tag set the interest profile update will use.
// Answer targets resolve transitively to the parent question's tags.
// Returns nil tags for actions that do not touch profiles so the callers
// can skip the content lookup entirely.
func resolveTags(ctx context.Context, repo content.Repository, req interaction.Request) ([]string, error) {
	if _, qualifying := profile.Weight(req.Action); !qualifying {
		return nil, nil
	}
	switch req.TargetType {
	case interaction.TargetAnswer:
		tags, err := repo.ParentQuestionTags(ctx, req.TargetID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve answer tags: %w", err)
		}
		return tags, nil
	default:
		item, err := repo.GetByID(ctx, req.TargetID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve question tags: %w", err)
		}
		return item.Tags, nil
	}
}

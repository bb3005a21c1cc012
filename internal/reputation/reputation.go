// Package reputation computes and applies reputation point deltas for
// interaction events.
package reputation

import (
	"github.com/onnwee/quorum/internal/interaction"
)

// Delta is the pair of point adjustments produced by one interaction.
// Performer is credited to the acting user, Author to the owner of the
// target content.
type Delta struct {
	Performer int
	Author    int
}

// IsZero reports whether the delta would change nothing.
func (d Delta) IsZero() bool {
	return d.Performer == 0 && d.Author == 0
}

// Compute returns the point deltas for an action on a target type.
//
// Point table:
//
//	upvote    performer +2, author +10
//	downvote  performer -1, author -2
//	post      author +5 (question) / +10 (answer)
//	delete    author -5 (question) / -10 (answer)
//	anything else: no points
func Compute(action interaction.Action, target interaction.TargetType) Delta {
	switch action {
	case interaction.ActionUpvote:
		return Delta{Performer: 2, Author: 10}
	case interaction.ActionDownvote:
		return Delta{Performer: -1, Author: -2}
	case interaction.ActionPost:
		if target == interaction.TargetQuestion {
			return Delta{Author: 5}
		}
		return Delta{Author: 10}
	case interaction.ActionDelete:
		if target == interaction.TargetQuestion {
			return Delta{Author: -5}
		}
		return Delta{Author: -10}
	default:
		return Delta{}
	}
}

// Adjustments resolves a delta into the per-user increments to apply.
// When the performer is also the author, only the author delta applies so a
// self-action is not counted twice.
func Adjustments(d Delta, performerID, authorID string) map[string]int {
	adj := make(map[string]int, 2)
	if performerID == authorID {
		if d.Author != 0 {
			adj[authorID] = d.Author
		}
		return adj
	}
	if d.Performer != 0 {
		adj[performerID] = d.Performer
	}
	if d.Author != 0 {
		adj[authorID] = d.Author
	}
	return adj
}

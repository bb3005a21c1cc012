// Package interaction defines the interaction ledger model: a deduplicated
// record of "user performed action A on target T of type K" that feeds
// reputation and interest-profile updates.
package interaction

import (
	"errors"
	"time"
)

// Action identifies what a user did to a piece of content.
// The set is closed: anything outside it is rejected at the ledger boundary
// instead of being silently ignored downstream.
type Action string

// Recognized actions.
const (
	ActionView       Action = "view"
	ActionUpvote     Action = "upvote"
	ActionDownvote   Action = "downvote"
	ActionBookmark   Action = "bookmark"
	ActionUnbookmark Action = "unbookmark"
	ActionPost       Action = "post"
	ActionAnswer     Action = "answer"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionSearch     Action = "search"
)

// TargetType identifies the kind of content an action was performed on.
type TargetType string

// Recognized target types.
const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

// Validation and authorization errors.
var (
	ErrNotAuthorized     = errors.New("interaction requires an authenticated user")
	ErrInvalidAction     = errors.New("unrecognized interaction action")
	ErrInvalidTargetType = errors.New("target type must be question or answer")
	ErrMissingTarget     = errors.New("interaction requires a target id")
)

// ValidAction reports whether a is one of the recognized actions.
func ValidAction(a Action) bool {
	switch a {
	case ActionView, ActionUpvote, ActionDownvote, ActionBookmark,
		ActionUnbookmark, ActionPost, ActionAnswer, ActionEdit,
		ActionDelete, ActionSearch:
		return true
	}
	return false
}

// ValidTargetType reports whether t is one of the recognized target types.
func ValidTargetType(t TargetType) bool {
	switch t {
	case TargetQuestion, TargetAnswer:
		return true
	}
	return false
}

// Record is a single ledger entry. At most one live record exists per
// (UserID, TargetID, Action, TargetType) tuple; repeating the same action
// re-stamps UpdatedAt on the existing record instead of creating a new one.
type Record struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Action     Action     `json:"action"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Request carries the parameters for recording an interaction.
// AuthorID is the author of the target content, needed for reputation.
type Request struct {
	UserID     string     `json:"-"`
	Action     Action     `json:"action"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	AuthorID   string     `json:"author_id"`
}

// Validate checks the request before any mutation is attempted.
// Authorization is checked first so a missing identity is never reported
// as a validation problem.
func (r *Request) Validate() error {
	if r.UserID == "" {
		return ErrNotAuthorized
	}
	if !ValidAction(r.Action) {
		return ErrInvalidAction
	}
	if !ValidTargetType(r.TargetType) {
		return ErrInvalidTargetType
	}
	if r.TargetID == "" {
		return ErrMissingTarget
	}
	return nil
}

// Package content provides read access to question content and its
// engagement counters for the recommendation engine. The core never mutates
// content; question and answer CRUD live with their own handlers.
package content

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the referenced content does not exist.
var ErrNotFound = errors.New("content not found")

// Author is the content author summary attached to hydrated items.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Item is a question as the recommendation core sees it: its tag set and
// global engagement counters, plus enough metadata to hydrate a result page.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Upvotes   int       `json:"upvotes"`
	Answers   int       `json:"answers"`
	Views     int       `json:"views"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// HasTag reports whether the item carries the given tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

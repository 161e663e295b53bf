// Package model provides data structures, error types and logging for the feed loader.
package model

import (
	"net/url"

	"github.com/google/uuid"
)

// FeedItem is a single decoded entry of a remote feed
type FeedItem struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	ImageURL    *url.URL
}

// Equal reports whether two items carry the same values.
// Optional fields are compared by value, not by pointer.
func (i FeedItem) Equal(other FeedItem) bool {
	return i.ID == other.ID &&
		equalOptional(i.Description, other.Description) &&
		equalOptional(i.Location, other.Location) &&
		equalURL(i.ImageURL, other.ImageURL)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalURL(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

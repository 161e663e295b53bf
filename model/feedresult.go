package model

import (
	"slices"
	"strconv"
)

// LoadError is the closed set of failures a feed load can report
type LoadError uint8

const (
	// Connectivity means the exchange with the remote host could not be completed
	Connectivity LoadError = iota + 1
	// InvalidData means the exchange completed but the response was unacceptable
	InvalidData
)

// Error implements the error interface
func (e LoadError) Error() string {
	switch e {
	case Connectivity:
		return "connectivity"
	case InvalidData:
		return "invalid data"
	default:
		return "undefined"
	}
}

// LoadResult is the outcome of a single feed load: either a list of items or a LoadError.
// The zero value is not a valid result; use Success or Failure.
type LoadResult struct {
	items []FeedItem
	err   LoadError
}

// Success returns a successful result holding items in order
func Success(items []FeedItem) LoadResult {
	if items == nil {
		items = []FeedItem{}
	}
	return LoadResult{items: items}
}

// Failure returns a failed result
func Failure(err LoadError) LoadResult {
	return LoadResult{err: err}
}

// Get returns the items on success, or the LoadError on failure
func (r LoadResult) Get() ([]FeedItem, error) {
	if r.err != 0 {
		return nil, r.err
	}
	return r.items, nil
}

// IsSuccess reports whether the result holds items
func (r LoadResult) IsSuccess() bool {
	return r.err == 0
}

// Equal reports whether two results hold the same outcome
func (r LoadResult) Equal(other LoadResult) bool {
	if r.err != other.err {
		return false
	}
	return slices.EqualFunc(r.items, other.items, FeedItem.Equal)
}

// String returns a short description of the result, suitable for logs
func (r LoadResult) String() string {
	if r.err != 0 {
		return "failure(" + r.err.Error() + ")"
	}
	return "success(" + strconv.Itoa(len(r.items)) + " items)"
}

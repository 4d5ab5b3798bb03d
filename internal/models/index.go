package models

import "time"

// IndexStateType represents the current state of the search index refresher.
type IndexStateType string

const (
	// IndexStateReady - waiting for the next rebuild
	IndexStateReady IndexStateType = "ready"
	// IndexStateRebuilding - a rebuild is running
	IndexStateRebuilding IndexStateType = "rebuilding"
	// IndexStateError - the last rebuild failed
	IndexStateError IndexStateType = "error"
	// IndexStateDisabled - the store matches records without an index relation
	IndexStateDisabled IndexStateType = "disabled"
)

// IndexStatus holds the refresher state and the outcome of the last rebuild.
type IndexStatus struct {
	State       IndexStateType
	Rows        int64
	LastRebuild *time.Time
	Error       error
}

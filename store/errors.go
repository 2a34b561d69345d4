package store

import "fmt"

// DuplicateKeyError reports an insert with an id that is already taken.
type DuplicateKeyError struct {
	Entity string
	ID     int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %d already exists", e.Entity, e.ID)
}

// SelfLoopError reports a route whose pickup and dropoff zones are the same.
type SelfLoopError struct {
	ZoneID int
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("pickup and dropoff zone must differ (zone %d)", e.ZoneID)
}

// DanglingReferenceError reports a route referencing a zone that does not
// exist. Side is "pickup" or "dropoff".
type DanglingReferenceError struct {
	Side   string
	ZoneID int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s zone %d does not exist", e.Side, e.ZoneID)
}

// KeyMismatchError reports an update whose target id disagrees with the
// id carried by the entity body.
type KeyMismatchError struct {
	TargetID int
	BodyID   int
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("route id mismatch: target %d, body %d", e.TargetID, e.BodyID)
}

package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound is returned when a participant id does not resolve to a known player.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrMatchNotFound is returned when a match id is not in the entity's played list.
	ErrMatchNotFound = errors.New("match not found")
	// ErrValidation marks malformed input rejected before the engine runs.
	ErrValidation = errors.New("validation failed")
	// ErrNotImplemented is returned by operations without a defined contract yet.
	ErrNotImplemented = errors.New("not implemented")
)

// StoreError is a persistence failure for one entity.
type StoreError struct {
	Op       string
	EntityID int64
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s for entity %d: %v", e.Op, e.EntityID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AggregationError identifies which participant's write failed during a
// multi-participant operation. Writes applied before the failure are kept.
type AggregationError struct {
	EntityID int64
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed for entity %d: %v", e.EntityID, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

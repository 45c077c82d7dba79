package repository

import "errors"

// ErrNotFound indicates that the requested resource was not found
var ErrNotFound = errors.New("resource not found")

// ErrSlotNotClaimed indicates that the conditional slot claim matched zero
// rows: another job instance already claimed this schedule's slot inside the
// half-interval window. This is the expected contention outcome, not a fault.
var ErrSlotNotClaimed = errors.New("slot not claimed: another instance already owns this run")

// IsNotFoundError checks if an error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSlotNotClaimedError checks if an error is the claim contention outcome
func IsSlotNotClaimedError(err error) bool {
	return errors.Is(err, ErrSlotNotClaimed)
}

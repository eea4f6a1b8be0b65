// Package tracking persists the ledger of applied migrations, kept in a
// store physically separate from the database being migrated.
package tracking

import "errors"

// Status partitions a sorted version list by application state.
type Status struct {
	Applied []string
	Pending []string
}

var (
	// ErrNotInitialized is returned when a store operation runs before Initialize.
	ErrNotInitialized = errors.New("tracking store is not initialized")
	// ErrClosed is returned when a closed store is asked to initialize again.
	ErrClosed = errors.New("tracking store is closed")
)

// Store is the applied-migrations ledger.
type Store interface {
	// Initialize creates the store's backing location and schema if needed.
	// Calling it on an already-initialized store is a no-op.
	Initialize() error
	// RecordApplied inserts one applied record at the current wall-clock
	// time. Recording an already-recorded version fails with the backing
	// store's constraint error.
	RecordApplied(version, description string) error
	// RemoveApplied deletes the record for a version. Removing an absent
	// version is not an error.
	RemoveApplied(version string) error
	// GetApplied returns all recorded versions in application order.
	GetApplied() ([]string, error)
	// GetStatus partitions allVersions by membership in the applied set,
	// preserving the input ordering.
	GetStatus(allVersions []string) (Status, error)
	// Close releases the store connection. Safe to call more than once.
	Close() error
}

// partition splits allVersions into applied and pending, preserving input
// order. Shared by the store implementations.
func partition(applied, allVersions []string) Status {
	appliedSet := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		appliedSet[v] = struct{}{}
	}

	status := Status{
		Applied: make([]string, 0, len(applied)),
		Pending: make([]string, 0),
	}
	for _, v := range allVersions {
		if _, ok := appliedSet[v]; ok {
			status.Applied = append(status.Applied, v)
		} else {
			status.Pending = append(status.Pending, v)
		}
	}
	return status
}

package migration

import (
	"errors"
	"fmt"

	"github.com/dnl-fm/litebase/db"
	"github.com/dnl-fm/litebase/internal/log"
	"github.com/dnl-fm/litebase/tracking"
)

var (
	// ErrNoRollback indicates a rollback was requested for a forward-only
	// migration.
	ErrNoRollback = errors.New("no rollback available")
	// ErrNotApplied indicates a rollback was requested for a version that is
	// not currently recorded as applied.
	ErrNotApplied = errors.New("migration is not applied")
)

// Runner applies pending migrations and rolls applied ones back. The applied
// set is read fresh from the tracking store on every call; nothing is cached
// across calls. Exactly one runner process at a time is a caller obligation,
// not something the runner enforces.
type Runner struct {
	set    *Set
	store  tracking.Store
	target db.Conn
}

// NewRunner wires a loaded migration set to a tracking store and a target
// connection. Both connections are owned by the caller; Close releases only
// the tracking store.
func NewRunner(set *Set, store tracking.Store, target db.Conn) *Runner {
	return &Runner{set: set, store: store, target: target}
}

// Migrate applies every pending migration in ascending version order and
// returns how many were applied. Each success is recorded before the next
// migration starts. On failure the runner stops: earlier migrations in the
// batch stay applied, later ones are never attempted, and no automatic
// rollback happens.
func (r *Runner) Migrate() (int, error) {
	if err := r.store.Initialize(); err != nil {
		return 0, err
	}

	status, err := r.store.GetStatus(r.set.Versions())
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, version := range status.Pending {
		unit, ok := r.set.Unit(version)
		if !ok {
			return applied, fmt.Errorf("migration %s is pending but missing from the loaded set", version)
		}
		descriptor, _ := r.set.Descriptor(version)

		log.Info("applying migration", "version", version, "description", descriptor.Description)
		if err := unit.Up(r.target); err != nil {
			return applied, fmt.Errorf("migration %s failed: %w", version, err)
		}
		if err := r.store.RecordApplied(version, descriptor.Description); err != nil {
			return applied, fmt.Errorf("migration %s succeeded but could not be recorded: %w", version, err)
		}
		applied++
	}

	return applied, nil
}

// RollbackLast rolls back the most recently applied migration, by
// application order rather than version order. Returns 0 without error when
// nothing is applied, 1 on success.
func (r *Runner) RollbackLast() (int, error) {
	if err := r.store.Initialize(); err != nil {
		return 0, err
	}

	applied, err := r.store.GetApplied()
	if err != nil {
		return 0, err
	}
	if len(applied) == 0 {
		return 0, nil
	}

	if err := r.rollbackOne(applied[len(applied)-1]); err != nil {
		return 0, err
	}
	return 1, nil
}

// Rollback rolls back one specific applied version. Later applied versions
// are not considered: rolling back out of order is permitted and can leave
// the schema in a state later migrations no longer match.
func (r *Runner) Rollback(version string) error {
	if err := r.store.Initialize(); err != nil {
		return err
	}

	applied, err := r.store.GetApplied()
	if err != nil {
		return err
	}
	found := false
	for _, v := range applied {
		if v == version {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("cannot roll back %s: %w", version, ErrNotApplied)
	}

	return r.rollbackOne(version)
}

func (r *Runner) rollbackOne(version string) error {
	unit, ok := r.set.Unit(version)
	if !ok {
		return fmt.Errorf("migration %s is recorded as applied but missing from the loaded set", version)
	}
	if unit.Down == nil {
		return fmt.Errorf("cannot roll back %s: %w", version, ErrNoRollback)
	}

	log.Info("rolling back migration", "version", version)
	if err := unit.Down(r.target); err != nil {
		return fmt.Errorf("rollback of %s failed: %w", version, err)
	}
	if err := r.store.RemoveApplied(version); err != nil {
		return fmt.Errorf("rollback of %s succeeded but the record could not be removed: %w", version, err)
	}
	return nil
}

// Status reports which migrations in the set are applied and which are
// pending, in ascending version order.
func (r *Runner) Status() (tracking.Status, error) {
	if err := r.store.Initialize(); err != nil {
		return tracking.Status{}, err
	}
	return r.store.GetStatus(r.set.Versions())
}

// Close releases the tracking store connection. The target connection stays
// open; it belongs to the caller.
func (r *Runner) Close() error {
	return r.store.Close()
}

package migration

import (
	"errors"
	"fmt"

	"github.com/dnl-fm/litebase/db"
)

// Operation is one direction of a migration, run against the target store.
type Operation func(conn db.Conn) error

// Unit is the executable pair for one schema change. Up is required; a Unit
// without Down is forward-only and cannot be rolled back through the runner.
type Unit struct {
	Up   Operation
	Down Operation
}

// Migration source files may register either a Unit value or any type with
// these method shapes. Extra methods and fields are ignored, so authors can
// hang metadata off their migration types without breaking validation.
type upMigration interface {
	Up(conn db.Conn) error
}

type downMigration interface {
	Down(conn db.Conn) error
}

// ErrInvalidUnit indicates a registered candidate is not a usable migration.
var ErrInvalidUnit = errors.New("invalid migration unit")

// ValidateUnit normalizes a registered candidate into a Unit. The candidate
// must provide an up operation; a down operation is optional.
func ValidateUnit(candidate any) (Unit, error) {
	switch c := candidate.(type) {
	case nil:
		return Unit{}, fmt.Errorf("%w: candidate is nil", ErrInvalidUnit)
	case Unit:
		return normalizeUnit(c)
	case *Unit:
		if c == nil {
			return Unit{}, fmt.Errorf("%w: candidate is nil", ErrInvalidUnit)
		}
		return normalizeUnit(*c)
	}

	up, ok := candidate.(upMigration)
	if !ok {
		return Unit{}, fmt.Errorf("%w: candidate of type %T has no Up(db.Conn) error method", ErrInvalidUnit, candidate)
	}

	unit := Unit{Up: up.Up}
	if down, ok := candidate.(downMigration); ok {
		unit.Down = down.Down
	}
	return unit, nil
}

func normalizeUnit(u Unit) (Unit, error) {
	if u.Up == nil {
		return Unit{}, fmt.Errorf("%w: unit has no up operation", ErrInvalidUnit)
	}
	// Return only the recognized members.
	return Unit{Up: u.Up, Down: u.Down}, nil
}

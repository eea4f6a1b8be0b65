package migration

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dnl-fm/litebase/internal/log"
)

// Set is the ordered mapping from version to executable migration produced
// by a successful Load. It is immutable once built.
type Set struct {
	versions    []string
	units       map[string]Unit
	descriptors map[string]Descriptor
}

// Versions returns all versions in ascending order.
func (s *Set) Versions() []string {
	out := make([]string, len(s.versions))
	copy(out, s.versions)
	return out
}

// Unit returns the executable migration for a version.
func (s *Set) Unit(version string) (Unit, bool) {
	u, ok := s.units[version]
	return u, ok
}

// Descriptor returns the source descriptor for a version.
func (s *Set) Descriptor(version string) (Descriptor, bool) {
	d, ok := s.descriptors[version]
	return d, ok
}

// Len returns the number of migrations in the set.
func (s *Set) Len() int {
	return len(s.versions)
}

// Load scans dir for migration source files, validates their names, checks
// for version collisions, and pairs each surviving file with its registered
// unit. The load is all-or-nothing: a collision, an unregistered version or
// an invalid unit fails the whole call and nothing is returned. Files that
// don't look like migrations at all are skipped.
func Load(dir string, reg *Registry) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, Ext) {
			continue
		}

		d, err := ParseFilename(name, dir)
		if err != nil {
			// A .go file that isn't shaped like a migration (doc.go, helper
			// code living next to migrations) is not an error; files whose
			// bodies turn out broken are caught below, after collisions.
			log.Debug("skipping non-migration file", "file", name, "reason", err)
			continue
		}
		descriptors = append(descriptors, d)
	}

	if err := DetectCollisions(descriptors); err != nil {
		return nil, err
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Version < descriptors[j].Version
	})

	set := &Set{
		versions:    make([]string, 0, len(descriptors)),
		units:       make(map[string]Unit, len(descriptors)),
		descriptors: make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		candidate, ok := reg.Lookup(d.Version)
		if !ok {
			return nil, fmt.Errorf("failed to load migration %s: no unit registered for version %s", d.Source, d.Version)
		}
		unit, err := ValidateUnit(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to load migration %s: %w", d.Source, err)
		}

		set.versions = append(set.versions, d.Version)
		set.units[d.Version] = unit
		set.descriptors[d.Version] = d
	}

	return set, nil
}

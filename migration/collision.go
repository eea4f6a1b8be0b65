package migration

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrVersionCollision indicates two or more migration files share a version.
var ErrVersionCollision = errors.New("migration version collision")

// DetectCollisions verifies version uniqueness across a set of descriptors.
// Every colliding group is reported in a single error, each with the full
// source path of every conflicting file. Input order is irrelevant.
func DetectCollisions(descriptors []Descriptor) error {
	byVersion := make(map[string][]Descriptor)
	for _, d := range descriptors {
		byVersion[d.Version] = append(byVersion[d.Version], d)
	}

	var colliding []string
	for version, group := range byVersion {
		if len(group) > 1 {
			colliding = append(colliding, version)
		}
	}
	if len(colliding) == 0 {
		return nil
	}
	sort.Strings(colliding)

	var b strings.Builder
	for _, version := range colliding {
		group := byVersion[version]
		sources := make([]string, len(group))
		for i, d := range group {
			sources[i] = d.Source
		}
		sort.Strings(sources)
		fmt.Fprintf(&b, "\n  %s: %s", version, strings.Join(sources, ", "))
	}

	return fmt.Errorf("%w: the following versions are used by more than one file:%s",
		ErrVersionCollision, b.String())
}

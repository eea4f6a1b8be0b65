package id_test

import (
	"regexp"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/dnl-fm/litebase/internal/id"
)

func TestUUID(t *testing.T) {
	a := id.UUID()
	b := id.UUID()

	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("UUID() returned an unparseable value %q: %v", a, err)
	}
	if a == b {
		t.Error("two UUIDs should not collide")
	}
}

func TestSortable(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{8}T\d{6}_[0-9a-f]{6}$`)

	ids := make([]string, 50)
	seen := make(map[string]bool)
	for i := range ids {
		ids[i] = id.Sortable()
		if !pattern.MatchString(ids[i]) {
			t.Fatalf("Sortable() returned %q, want timestamp_suffix format", ids[i])
		}
		if seen[ids[i]] {
			t.Fatalf("Sortable() produced a duplicate: %s", ids[i])
		}
		seen[ids[i]] = true
	}

	// IDs minted in order sort by their timestamp prefix.
	prefixes := make([]string, len(ids))
	for i, v := range ids {
		prefixes[i] = v[:15]
	}
	if !sort.StringsAreSorted(prefixes) {
		t.Error("timestamp prefixes should be non-decreasing for sequential IDs")
	}
}

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnl-fm/litebase/migration"
)

func mustParse(t *testing.T, fileName, dir string) migration.Descriptor {
	t.Helper()
	d, err := migration.ParseFilename(fileName, dir)
	if err != nil {
		t.Fatalf("ParseFilename(%q) error: %v", fileName, err)
	}
	return d
}

func TestDetectCollisions_NoCollision(t *testing.T) {
	t.Parallel()

	descriptors := []migration.Descriptor{
		mustParse(t, "20240101T000000_create_users.go", "migrations"),
		mustParse(t, "20240102T000000_add_posts.go", "migrations"),
	}

	assert.NoError(t, migration.DetectCollisions(descriptors))
	assert.NoError(t, migration.DetectCollisions(nil))
}

func TestDetectCollisions_ReportsEveryFile(t *testing.T) {
	t.Parallel()

	descriptors := []migration.Descriptor{
		mustParse(t, "20240101T000000_create_users.go", "migrations"),
		mustParse(t, "20240101T000000_add_posts.go", "migrations"),
		mustParse(t, "20240101T000000_add_tags.go", "migrations"),
	}

	err := migration.DetectCollisions(descriptors)
	assert.ErrorIs(t, err, migration.ErrVersionCollision)
	assert.Contains(t, err.Error(), "20240101T000000")
	assert.Contains(t, err.Error(), "migrations/20240101T000000_create_users.go")
	assert.Contains(t, err.Error(), "migrations/20240101T000000_add_posts.go")
	assert.Contains(t, err.Error(), "migrations/20240101T000000_add_tags.go")
}

func TestDetectCollisions_ReportsEveryGroup(t *testing.T) {
	t.Parallel()

	descriptors := []migration.Descriptor{
		mustParse(t, "20240101T000000_create_users.go", "migrations"),
		mustParse(t, "20240101T000000_add_posts.go", "migrations"),
		mustParse(t, "20240202T000000_add_tags.go", "migrations"),
		mustParse(t, "20240202T000000_add_labels.go", "migrations"),
		mustParse(t, "20240303T000000_fine.go", "migrations"),
	}

	err := migration.DetectCollisions(descriptors)
	assert.ErrorIs(t, err, migration.ErrVersionCollision)
	assert.Contains(t, err.Error(), "20240101T000000")
	assert.Contains(t, err.Error(), "20240202T000000")
	assert.NotContains(t, err.Error(), "20240303T000000")
}

func TestDetectCollisions_InputOrderIrrelevant(t *testing.T) {
	t.Parallel()

	forward := []migration.Descriptor{
		mustParse(t, "20240101T000000_create_users.go", "migrations"),
		mustParse(t, "20240101T000000_add_posts.go", "migrations"),
	}
	reversed := []migration.Descriptor{forward[1], forward[0]}

	errForward := migration.DetectCollisions(forward)
	errReversed := migration.DetectCollisions(reversed)
	assert.Error(t, errForward)
	assert.Error(t, errReversed)
	assert.Equal(t, errForward.Error(), errReversed.Error())
}

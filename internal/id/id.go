// Package id provides the two row-ID schemes litebase hands out: random
// UUIDs and time-sortable identifiers.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// UUID returns a random version-4 UUID string.
func UUID() string {
	return uuid.NewString()
}

// Sortable returns an identifier that sorts by creation time:
// a UTC second-resolution timestamp followed by a random suffix that keeps
// IDs minted within the same second unique.
func Sortable() string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// there is no reasonable fallback for an ID generator.
		panic(err)
	}
	return time.Now().UTC().Format("20060102T150405") + "_" + hex.EncodeToString(suffix)
}

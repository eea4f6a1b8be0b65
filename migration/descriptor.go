// Package migration implements versioned schema migrations: discovery of
// migration files on disk, compile-time registration of their executable
// units, and ordered execution against a target database with applied
// versions tracked in a separate store.
package migration

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// VersionFormat is the layout of a migration version: a 15-character
// UTC timestamp. Lexicographic order on versions equals chronological order.
const VersionFormat = "20060102T150405"

// Ext is the extension of migration source files.
const Ext = ".go"

// filenameRegex matches migration filenames: YYYYMMDDTHHMMSS_name.go
var filenameRegex = regexp.MustCompile(`^(\d{8}T\d{6})_([a-z0-9_]+)\.go$`)

// Descriptor identifies one migration source file. Construct it via
// ParseFilename only; a hand-built Descriptor carries no validation.
type Descriptor struct {
	Version     string // 15-char timestamp version
	Description string // snake_case name from the filename
	Source      string // directory-joined path to the file

	fileName string
}

// GenerateVersion creates a new migration version from the current UTC time.
func GenerateVersion() string {
	return time.Now().UTC().Format(VersionFormat)
}

// Filename returns the canonical filename for a version/description pair.
func Filename(version, description string) string {
	return fmt.Sprintf("%s_%s%s", version, description, Ext)
}

// ParseFilename parses a migration filename into a Descriptor and validates
// the version's date and time fields. dir is joined onto the filename to
// form Source; a trailing separator on dir is tolerated.
func ParseFilename(fileName, dir string) (Descriptor, error) {
	matches := filenameRegex.FindStringSubmatch(fileName)
	if matches == nil {
		return Descriptor{}, fmt.Errorf(
			"invalid migration filename %q: expected YYYYMMDDTHHMMSS_description%s with a lowercase [a-z0-9_]+ description",
			fileName, Ext,
		)
	}

	version := matches[1]
	if err := validateVersion(version); err != nil {
		return Descriptor{}, fmt.Errorf("invalid migration filename %q: %w", fileName, err)
	}

	return Descriptor{
		Version:     version,
		Description: matches[2],
		// filepath.Join normalizes a trailing separator on dir.
		Source:   filepath.Join(dir, fileName),
		fileName: fileName,
	}, nil
}

// Equals reports whether two descriptors refer to the same migration file.
// Descriptions are deliberately not compared; two files may share one.
func (d Descriptor) Equals(other Descriptor) bool {
	return d.Version == other.Version && d.fileName == other.fileName
}

// validateVersion checks each field of a YYYYMMDDTHHMMSS version for
// calendar validity. The regex already guarantees digits in the right spots.
func validateVersion(version string) error {
	year := mustAtoi(version[0:4])
	month := mustAtoi(version[4:6])
	day := mustAtoi(version[6:8])
	hour := mustAtoi(version[9:11])
	minute := mustAtoi(version[11:13])
	second := mustAtoi(version[13:15])

	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d (must be between 1 and 12)", month)
	}
	if max := daysInMonth(year, month); day < 1 || day > max {
		return fmt.Errorf("invalid day: %d (month %d has a maximum of %d days)", day, month, max)
	}
	if hour > 23 {
		return fmt.Errorf("invalid hour: %d (must be between 0 and 23)", hour)
	}
	if minute > 59 {
		return fmt.Errorf("invalid minute: %d (must be between 0 and 59)", minute)
	}
	if second > 59 {
		return fmt.Errorf("invalid second: %d (must be between 0 and 59)", second)
	}

	return nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

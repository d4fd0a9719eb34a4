package rollover

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// rolloverAt is the value at which patch and minor wrap back to zero.
const rolloverAt = 10

// ErrInvalidVersion is returned when a version string is not exactly
// three dot-separated non-negative integers.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "M.m.p". A leading "v" is tolerated. Prerelease and
// build suffixes, shorthand forms like "1.2" and leading zeros are rejected.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	v := "v" + strings.TrimPrefix(raw, "v")
	if !semver.IsValid(v) || semver.Canonical(v) != v || semver.Prerelease(v) != "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Next returns the following version under rollover numbering: patch and
// minor wrap at 10, carrying into the next component.
func (v Version) Next() Version {
	next := v
	next.Patch++
	if next.Patch >= rolloverAt {
		next.Patch = 0
		next.Minor++
	}
	if next.Minor >= rolloverAt {
		next.Minor = 0
		next.Major++
	}
	return next
}

// String formats the version without a "v" prefix.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag is the git tag name for the version.
func (v Version) Tag() string {
	return "v" + v.String()
}

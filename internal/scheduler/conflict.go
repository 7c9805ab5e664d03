package scheduler

import (
	"fmt"
	"strings"
)

// ConflictPolicy decides which day sets are compared for time overlap.
type ConflictPolicy string

const (
	// ConflictPolicyExact compares sections only when their day sets are identical.
	ConflictPolicyExact ConflictPolicy = "exact"
	// ConflictPolicyIntersect compares sections sharing at least one day.
	ConflictPolicyIntersect ConflictPolicy = "intersect"
)

// ParseConflictPolicy resolves a policy name; empty means exact.
func ParseConflictPolicy(raw string) (ConflictPolicy, error) {
	switch ConflictPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ConflictPolicyExact:
		return ConflictPolicyExact, nil
	case ConflictPolicyIntersect:
		return ConflictPolicyIntersect, nil
	default:
		return "", fmt.Errorf("%w: unknown conflict policy %q", ErrInvalidOptions, raw)
	}
}

// Conflicts reports whether a and b overlap under the exact day-set policy.
func Conflicts(a, b Section) bool {
	return ConflictPolicyExact.Conflicts(a, b)
}

// Conflicts reports whether a and b meet at overlapping times. Intervals are
// half-open, so a section ending at 10:00 does not clash with one starting at 10:00.
func (p ConflictPolicy) Conflicts(a, b Section) bool {
	switch p {
	case ConflictPolicyIntersect:
		if !a.Days.Intersects(b.Days) {
			return false
		}
	default:
		if a.Days != b.Days {
			return false
		}
	}
	return a.Start < b.End && b.Start < a.End
}

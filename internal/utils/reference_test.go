package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestNewBookingReferenceFormat(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	ref := NewBookingReference("NVT", now)

	pattern := regexp.MustCompile(`^NVT-20260310-[A-Z0-9]{5}$`)
	if !pattern.MatchString(ref) {
		t.Fatalf("reference %q does not match expected format", ref)
	}
}

func TestNewBookingReferenceDispersion(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 10000)
	dupes := 0
	for i := 0; i < 10000; i++ {
		ref := NewBookingReference("NVT", now)
		if seen[ref] {
			dupes++
		}
		seen[ref] = true
	}
	// 36^5 suffixes: a handful of birthday collisions in 10k draws is
	// possible, a flood means the generator is broken.
	if dupes > 10 {
		t.Fatalf("too many duplicate references: %d", dupes)
	}
}

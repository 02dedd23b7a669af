package utils

import "strings"

// NormalizeSeat upper-cases and trims a seat number ("1a " -> "1A").
func NormalizeSeat(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSeats cleans a seat number list, dropping blanks.
func NormalizeSeats(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = NormalizeSeat(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DuplicateSeats returns the seat numbers that appear more than once.
func DuplicateSeats(seats []string) []string {
	seen := map[string]bool{}
	dup := map[string]bool{}
	out := []string{}
	for _, s := range seats {
		if seen[s] && !dup[s] {
			dup[s] = true
			out = append(out, s)
		}
		seen[s] = true
	}
	return out
}

// MissingSeats returns the requested seat numbers absent from found.
func MissingSeats(requested, found []string) []string {
	have := make(map[string]bool, len(found))
	for _, s := range found {
		have[s] = true
	}
	missing := []string{}
	for _, s := range requested {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

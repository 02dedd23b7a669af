package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const referenceSuffixLen = 5

// NewBookingReference builds a human-shareable reference like
// "NVT-20251201-A1B2C". Collisions are possible; callers must check
// against stored references and retry.
func NewBookingReference(prefix string, now time.Time) string {
	suffix := make([]byte, referenceSuffixLen)
	for i := range suffix {
		suffix[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

package engine

import "math"

// roundHalfUp rounds to the nearest integer, halves away from zero for the
// positive values the engine works with.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// clampScore bounds a raw additive score to the 0-100 scale.
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// appendReason appends r to reasons unless an equal string is already
// present. Insertion order is discovery order; callers rely on both the
// ordering and the deduplication.
func appendReason(reasons []string, r string) []string {
	for _, existing := range reasons {
		if existing == r {
			return reasons
		}
	}
	return append(reasons, r)
}

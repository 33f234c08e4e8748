package model

// ScoredResult wraps a beverage with its 0-100 match score and the ordered,
// deduplicated list of human-readable reasons behind it. Transient: produced
// fresh per query and never stored.
type ScoredResult struct {
	Beverage Beverage `json:"beverage"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`
}

// PairingResult extends ScoredResult for dish pairing, carrying the pairing
// strings that matched the selected dishes and the flavor-fit reasons from
// the dish category pass.
type PairingResult struct {
	ScoredResult
	MatchedPairings []string `json:"matched_pairings,omitempty"`
	FlavorReasons   []string `json:"flavor_reasons,omitempty"`
}

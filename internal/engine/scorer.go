package engine

import (
	"fmt"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/model"
)

// ScoreContext supplies the per-user context for scoring one beverage:
// whether it is favorited, the user's journal rating for it (0 when the
// user never rated it), and the user's other favorited beverages for
// similarity detection.
type ScoreContext struct {
	IsFavorite     bool
	JournalRating  int
	OtherFavorites []model.Beverage
}

// ScoreBeverage scores a single catalog item against a preference profile.
// Scoring is additive across independent signals, each capped individually,
// and the total is clamped to [0,100]. Reasons are appended in the fixed
// signal-evaluation order and never duplicated. The scorer has no failure
// modes: missing optional fields contribute zero for their term.
func ScoreBeverage(b model.Beverage, profile model.PreferenceProfile, sc ScoreContext, cfg config.EngineConfig) model.ScoredResult {
	score := 0
	var reasons []string

	// Type match.
	for _, t := range profile.PreferredTypes {
		if t == b.Type && t != "" {
			score += cfg.TypeMatchBonus
			reasons = appendReason(reasons, fmt.Sprintf("Matches your preferred %s style", b.Type))
			break
		}
	}

	// Price fit. A beverage without a price contributes nothing, and an
	// in-range price adds points without a reason.
	if profile.PriceRange != nil && b.Price > 0 {
		switch {
		case profile.PriceRange.Contains(b.Price):
			score += cfg.PriceFitBonus
		case b.Price < profile.PriceRange.Min:
			score += cfg.ValueBonus
			reasons = appendReason(reasons, "Great value option")
		}
	}

	// Flavor distance.
	flavor := b.FlavorOrDefault()
	if term := cfg.FlavorBase - cfg.FlavorSlope*flavor.L1Distance(profile.Flavor); term > 0 {
		score += term
		if term >= cfg.FlavorReasonThreshold {
			reasons = appendReason(reasons, "Matches your flavor preferences")
		}
	}

	// High-tannin penalty. No reason is emitted for penalties.
	if profile.AvoidHighTannins && flavor.Tannins >= cfg.HighTanninThreshold {
		score -= cfg.TanninPenalty
	}

	// Favorite.
	if sc.IsFavorite {
		score += cfg.FavoriteBonus
		reasons = appendReason(reasons, "One of your favorites")
	}

	// Journal rating.
	switch {
	case sc.JournalRating >= 4:
		score += cfg.JournalBonus
		reasons = appendReason(reasons, fmt.Sprintf("You rated this %d/5", sc.JournalRating))
	case sc.JournalRating >= 1 && sc.JournalRating <= 2:
		score -= cfg.JournalBonus
	}

	// Featured.
	if b.Featured {
		score += cfg.FeaturedBonus
		reasons = appendReason(reasons, "Staff pick")
	}

	// Similarity to other favorites: same type, different id.
	for _, fav := range sc.OtherFavorites {
		if fav.ID != b.ID && fav.Type == b.Type && b.Type != "" {
			score += cfg.SimilarBonus
			reasons = appendReason(reasons, "Similar to wines you love")
			break
		}
	}

	return model.ScoredResult{
		Beverage: b,
		Score:    clampScore(score),
		Reasons:  reasons,
	}
}

package domain

// CandidateCard is an immutable snapshot of a catalog item (restaurant)
// supplied by the external catalog provider for one scoring call.
type CandidateCard struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Rating           float64  `json:"rating"`      // 1..5, 0 means unknown
	PriceRange       int      `json:"price_range"` // 1..4, 0 means unknown
	Cuisines         []string `json:"cuisines"`
	DistanceInMeters float64  `json:"distance_in_meters"`
	OpenNow          *bool    `json:"open_now,omitempty"` // nil means unknown
	Photos           []string `json:"photos,omitempty"`
}

// HasRating reports whether the catalog provided a rating for this card.
func (c CandidateCard) HasRating() bool {
	return c.Rating > 0
}

// UserPreferences are optional stated filter preferences. A nil
// *UserPreferences means the user has not set any filters.
type UserPreferences struct {
	MinRating           float64  `json:"min_rating"`
	PreferredPriceRange []int    `json:"preferred_price_range"`
	PreferredCuisines   []string `json:"preferred_cuisines"`
	MaxDistance         float64  `json:"max_distance"` // meters
	OnlyOpenNow         bool     `json:"only_open_now"`
}

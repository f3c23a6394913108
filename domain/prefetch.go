package domain

import "time"

// Prefetch outcome event types, in causal order.
const (
	PrefetchStarted   = "started"
	PrefetchCompleted = "completed"
	PrefetchUsed      = "used"
	PrefetchWasted    = "wasted"
)

// CostEstimate is the projected API spend for one candidate.
type CostEstimate struct {
	DetailsAPICost float64 `json:"details_api_cost"`
	PhotoAPICost   float64 `json:"photo_api_cost"`
	TotalCost      float64 `json:"total_cost"`
	Confidence     float64 `json:"confidence"`
}

// BudgetStatus is the remaining spend envelope, injected per call by the
// external budget provider.
type BudgetStatus struct {
	RemainingDaily   float64 `json:"remaining_daily"`
	RemainingMonthly float64 `json:"remaining_monthly"`
	DailyBudget      float64 `json:"daily_budget"`
	MonthlyBudget    float64 `json:"monthly_budget"`
	MinimumReserve   float64 `json:"minimum_reserve"`
}

// PrefetchCandidate is a candidate enriched with cost and value, ready for
// budget-constrained selection.
type PrefetchCandidate struct {
	Card           CandidateCard `json:"card"`
	Score          CardScore     `json:"score"`
	Position       int           `json:"position"`
	IncludePhotos  bool          `json:"include_photos"`
	EstimatedCost  CostEstimate  `json:"estimated_cost"`
	ExpectedValue  float64       `json:"expected_value"`
	ValuePerDollar float64       `json:"value_per_dollar"`
}

// PrefetchEvent is one outcome record reported by the fetch executor.
// Events live in a bounded in-memory ring, are mirrored as JSON into the
// key-value store, and archived append-only in Postgres.
type PrefetchEvent struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Type      string    `gorm:"column:event_type;not null" json:"type"`
	CardID    string    `gorm:"column:card_id;not null" json:"card_id"`
	Cost      float64   `gorm:"column:cost" json:"cost"`
	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (PrefetchEvent) TableName() string {
	return "prefetch_events"
}

// PrefetchAnalytics is a rolling aggregate over a time window, computed on
// demand from the event log. All rate metrics are percentages in [0, 100]
// and are 0 when their denominator is 0.
type PrefetchAnalytics struct {
	HitRate            float64   `json:"hit_rate"`
	WasteRate          float64   `json:"waste_rate"`
	CostSavings        float64   `json:"cost_savings"`
	PredictionAccuracy float64   `json:"prediction_accuracy"`
	FalsePositiveRate  float64   `json:"false_positive_rate"`
	CostPerEngagedUser float64   `json:"cost_per_engaged_user"`
	ReturnOnInvestment float64   `json:"return_on_investment"`
	TotalCost          float64   `json:"total_cost"`
	EventCount         int       `json:"event_count"`
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
}

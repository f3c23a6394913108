package prefetch

import (
	"sort"

	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/pkg/logger"
)

// Optimizer selects which scored candidates to prefetch without exceeding
// the remaining budget, maximizing expected value per dollar. It holds
// only configuration and is safe for concurrent use.
type Optimizer struct {
	cfg Config
}

func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// ScoredCandidate pairs a card with its score and queue position, the
// input shape handed over by the scoring engine.
type ScoredCandidate struct {
	Card     domain.CandidateCard
	Score    domain.CardScore
	Position int
}

// CalculateCostEstimate projects the API spend for one candidate. Photo
// cost only applies when photos are requested and the card has any.
func (o *Optimizer) CalculateCostEstimate(card domain.CandidateCard, includePhotos bool) domain.CostEstimate {
	est := domain.CostEstimate{
		DetailsAPICost: o.cfg.DetailsCost,
		Confidence:     o.cfg.CostConfidence,
	}
	if includePhotos && len(card.Photos) > 0 {
		est.PhotoAPICost = o.cfg.PhotoCost
	}
	est.TotalCost = est.DetailsAPICost + est.PhotoAPICost
	return est
}

// CalculateExpectedValue estimates the dollar benefit of prefetching a
// candidate, net of its cost. engagementHistory is the rolling analytics
// feedback in [0, 1]; the result may be negative.
func (o *Optimizer) CalculateExpectedValue(score domain.CardScore, cost float64, engagementHistory float64) float64 {
	pView := score.Confidence * score.FinalScore / 100
	pDetail := pView * engagementHistory
	pPhoto := pView * engagementHistory * o.cfg.PhotoViewFactor
	pHighEngagement := pView * score.EngagementPrediction / 100

	expectedBenefit := pView*o.cfg.ValueCardView +
		pDetail*o.cfg.ValueDetailView +
		pPhoto*o.cfg.ValuePhotoView +
		pHighEngagement*o.cfg.ValueHighEngagement

	return expectedBenefit - cost
}

// OptimizePrefetchQueue picks the subset of candidates to prefetch within
// budget. Greedy by value density (expected value per dollar) rather than
// an exact knapsack solve; at these batch sizes the approximation is
// within noise of the value model itself.
func (o *Optimizer) OptimizePrefetchQueue(
	candidates []ScoredCandidate,
	budget domain.BudgetStatus,
	engagementHistory float64,
) []domain.PrefetchCandidate {
	if engagementHistory <= 0 {
		engagementHistory = o.cfg.DefaultEngagementHistory
	}

	available := availableBudget(budget)
	if available <= 0 {
		return []domain.PrefetchCandidate{}
	}

	thresholds := o.AdjustThresholdsForBudget(o.cfg.BaseThresholds, budget)

	enriched := make([]domain.PrefetchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score.Confidence < thresholds.MinConfidence || c.Score.FinalScore < thresholds.MinScore {
			continue
		}

		includePhotos := o.ShouldPrefetchPhotos(c.Card, c.Score, budget)
		est := o.CalculateCostEstimate(c.Card, includePhotos)
		ev := o.CalculateExpectedValue(c.Score, est.TotalCost, engagementHistory)
		if ev <= 0 {
			continue
		}

		enriched = append(enriched, domain.PrefetchCandidate{
			Card:           c.Card,
			Score:          c.Score,
			Position:       c.Position,
			IncludePhotos:  includePhotos,
			EstimatedCost:  est,
			ExpectedValue:  ev,
			ValuePerDollar: ev / est.TotalCost,
		})
	}

	sort.Slice(enriched, func(i, j int) bool {
		return enriched[i].ValuePerDollar > enriched[j].ValuePerDollar
	})

	selected := make([]domain.PrefetchCandidate, 0, len(enriched))
	runningCost := 0.0
	for _, c := range enriched {
		if runningCost+c.EstimatedCost.TotalCost > available {
			continue
		}
		runningCost += c.EstimatedCost.TotalCost
		selected = append(selected, c)
	}

	logger.Debug("prefetch queue optimized",
		"candidates", len(candidates),
		"positive_value", len(enriched),
		"selected", len(selected),
		"planned_cost", runningCost,
		"available_budget", available,
	)

	return selected
}

// ShouldPrefetchPhotos gates the larger photo-fetch spend: only very
// confident, high-scoring cards for engaged users qualify.
func (o *Optimizer) ShouldPrefetchPhotos(card domain.CandidateCard, score domain.CardScore, budget domain.BudgetStatus) bool {
	if len(card.Photos) == 0 {
		return false
	}
	if score.Confidence < o.cfg.PhotoMinConfidence || score.FinalScore < o.cfg.PhotoMinScore {
		return false
	}
	if score.EngagementPrediction <= o.cfg.PhotoMinEngagement {
		return false
	}

	remaining := minFloat(budget.RemainingDaily, budget.RemainingMonthly)
	return remaining >= o.cfg.PhotoCost+budget.MinimumReserve
}

// AdjustThresholdsForBudget raises the gates as the budget depletes. The
// adjustment is monotone: a smaller budget never loosens a threshold.
func (o *Optimizer) AdjustThresholdsForBudget(base Thresholds, budget domain.BudgetStatus) Thresholds {
	ratio := budgetRatio(budget)

	adjusted := base
	switch {
	case ratio < 0.10:
		adjusted.MinConfidence += 0.15
		adjusted.MinScore += 20
	case ratio < 0.25:
		adjusted.MinConfidence += 0.10
		adjusted.MinScore += 10
	case ratio < 0.50:
		adjusted.MinConfidence += 0.05
		adjusted.MinScore += 5
	}

	if adjusted.MinConfidence > 1 {
		adjusted.MinConfidence = 1
	}
	if adjusted.MinScore > 100 {
		adjusted.MinScore = 100
	}

	return adjusted
}

func availableBudget(b domain.BudgetStatus) float64 {
	return minFloat(b.RemainingDaily, b.RemainingMonthly) - b.MinimumReserve
}

func budgetRatio(b domain.BudgetStatus) float64 {
	ratio := 1.0
	if b.DailyBudget > 0 {
		ratio = b.RemainingDaily / b.DailyBudget
	}
	if b.MonthlyBudget > 0 {
		if monthly := b.RemainingMonthly / b.MonthlyBudget; monthly < ratio {
			ratio = monthly
		}
	}
	return ratio
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

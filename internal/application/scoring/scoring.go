package scoring

import (
	"sort"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// Factor bounds and priority thresholds for scored questions.
const (
	FactorMin = 0
	FactorMax = 3

	highThreshold   = 6
	mediumThreshold = 4
)

// ClampFactor forces a single factor into [0,3].
func ClampFactor(v int) int {
	if v < FactorMin {
		return FactorMin
	}
	if v > FactorMax {
		return FactorMax
	}
	return v
}

// PriorityFor maps a total score to its priority tier.
func PriorityFor(total int) string {
	switch {
	case total >= highThreshold:
		return entities.PriorityHigh
	case total >= mediumThreshold:
		return entities.PriorityMedium
	default:
		return entities.PriorityLow
	}
}

// Score clamps the five factors of q, recomputes Total as their sum
// and derives Priority. It mutates q in place and has no other effects.
func Score(q *entities.TenderQuestion) {
	q.KnockOutRisk = ClampFactor(q.KnockOutRisk)
	q.ScoringImpact = ClampFactor(q.ScoringImpact)
	q.FinancialImpact = ClampFactor(q.FinancialImpact)
	q.ScheduleImpact = ClampFactor(q.ScheduleImpact)
	q.EvidenceBurden = ClampFactor(q.EvidenceBurden)

	q.Total = q.KnockOutRisk + q.ScoringImpact + q.FinancialImpact +
		q.ScheduleImpact + q.EvidenceBurden
	q.Priority = PriorityFor(q.Total)
}

// ScoreAndSort scores every question, then sorts descending by Total.
// The sort is stable: questions with equal totals keep their original
// generation order, so repeated renders of the same output are
// byte-identical.
func ScoreAndSort(questions []*entities.TenderQuestion) {
	for _, q := range questions {
		Score(q)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Total > questions[j].Total
	})
	for i, q := range questions {
		q.Position = i
	}
}

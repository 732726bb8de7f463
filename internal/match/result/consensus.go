package result

import (
	"math"
	"sort"

	"matchday/internal/match/models"
	id "matchday/pkg/domain"
)

// mean is the arithmetic mean of values. values must not be empty.
func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// median is the middle value, or the mean of the two middle values for an
// even count. values must not be empty and is not modified.
func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// roundHalfUp rounds .5 toward positive infinity. Scores are never negative.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// columns splits submissions into per-team score lists in the pair's order.
func columns(subs []*models.ScoreSubmission, pair models.TeamPair) (first, second []int) {
	first = make([]int, 0, len(subs))
	second = make([]int, 0, len(subs))
	for _, sub := range subs {
		score := sub.Oriented(pair)
		first = append(first, score.First)
		second = append(second, score.Second)
	}
	return first, second
}

// temporaryScoreline is the rounded per-team mean over every submission.
func temporaryScoreline(subs []*models.ScoreSubmission, pair models.TeamPair) models.Scoreline {
	first, second := columns(subs, pair)
	return models.Scoreline{
		First:  roundHalfUp(mean(first)),
		Second: roundHalfUp(mean(second)),
	}
}

// finalScoreline is the rounded per-team median over every submission.
func finalScoreline(subs []*models.ScoreSubmission, pair models.TeamPair) models.Scoreline {
	first, second := columns(subs, pair)
	return models.Scoreline{
		First:  roundHalfUp(median(first)),
		Second: roundHalfUp(median(second)),
	}
}

// verdicts accepts exactly the submissions whose oriented scores equal final.
func verdicts(subs []*models.ScoreSubmission, pair models.TeamPair, final models.Scoreline) map[id.SubmissionID]models.SubmissionStatus {
	out := make(map[id.SubmissionID]models.SubmissionStatus, len(subs))
	for _, sub := range subs {
		status := models.SubmissionRejected
		if sub.Oriented(pair) == final {
			status = models.SubmissionAccepted
		}
		out[sub.ID] = status
	}
	return out
}

package classifier

import (
	"math"
	"sort"

	"github.com/classmatch/classmatch/pkg/entity"
)

// RankResult pairs a candidate with its raw score.
type RankResult[T any] struct {
	Candidate T
	Score     float64
}

// criterion is one weighted scoring dimension. score returns a value in
// [0, 1]; the criterion contributes weight*score to the raw score and
// weight*(1-score) to the running mismatch.
type criterion[T any] struct {
	name     string
	weight   float64
	minLevel Level
	score    func(a, b T, env *entity.Env) float64
}

// Classifier is a weighted composition of criteria over one entity kind,
// guarded by a potential-equality gate.
type Classifier[T any] struct {
	criteria []criterion[T]
	gate     func(a, b T) bool
}

// MaxScore returns the sum of weights of the criteria enabled at level.
func (c *Classifier[T]) MaxScore(level Level) float64 {
	var total float64

	for _, cr := range c.criteria {
		if cr.minLevel <= level {
			total += cr.weight
		}
	}

	return total
}

// Rank scores subject against every candidate and returns the surviving
// candidates sorted by descending raw score. Candidates failing the
// potential-equality gate are skipped; a candidate is abandoned as soon as
// its accumulated mismatch exceeds maxMismatch.
func (c *Classifier[T]) Rank(subject T, candidates []T, level Level, env *entity.Env, maxMismatch float64) []RankResult[T] {
	results := make([]RankResult[T], 0, 8)

	for _, cand := range candidates {
		if c.gate != nil && !c.gate(subject, cand) {
			continue
		}

		score, ok := c.score(subject, cand, level, env, maxMismatch)
		if !ok {
			continue
		}

		results = append(results, RankResult[T]{Candidate: cand, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func (c *Classifier[T]) score(a, b T, level Level, env *entity.Env, maxMismatch float64) (float64, bool) {
	var score, mismatch float64

	for _, cr := range c.criteria {
		if cr.minLevel > level {
			continue
		}

		s := cr.score(a, b, env)
		score += cr.weight * s
		mismatch += cr.weight * (1 - s)

		if mismatch > maxMismatch {
			return 0, false
		}
	}

	return score, true
}

// GetScore normalizes a raw score against maxScore and squares the ratio,
// widening the gap between good and barely-good pairings.
func GetScore(rawScore, maxScore float64) float64 {
	ratio := rawScore / maxScore

	return ratio * ratio
}

// GetRawScore inverts GetScore; it derives the raw score a candidate needs
// for a given normalized score.
func GetRawScore(score, maxScore float64) float64 {
	return math.Sqrt(score) * maxScore
}

// CheckRank reports whether a ranking is confident enough to commit: the top
// normalized score reaches absThreshold and, unless it is the only result,
// the runner-up stays below top*(1-relThreshold).
func CheckRank[T any](ranking []RankResult[T], absThreshold, relThreshold, maxScore float64) bool {
	if len(ranking) == 0 {
		return false
	}

	score := GetScore(ranking[0].Score, maxScore)
	if score < absThreshold {
		return false
	}

	if len(ranking) == 1 {
		return true
	}

	next := GetScore(ranking[1].Score, maxScore)

	return next < score*(1-relThreshold)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"math"
	"sort"

	"github.com/danielhkuo/rankstuff/models"
)

// Points is the Borda contribution of a single ranking: rank 1 earns
// nOptions points, rank nOptions earns 1. Ranks beyond nOptions go
// negative.
func Points(nOptions, rank int) int {
	return nOptions - rank + 1
}

// ScorePoll computes Borda scores for every option of p from ballots.
// Options are ordered by score descending; ties keep declaration order.
// Ranks are dense and distinct (1..n_options).
func ScorePoll(p models.Poll, ballots []models.Ballot) []models.OptionResult {
	n := len(p.Options)

	results := make([]models.OptionResult, n)
	index := make(map[string]int, n)
	for i, opt := range p.Options {
		results[i] = models.OptionResult{OptionID: opt.ID, Label: opt.Label}
		index[opt.ID] = i
	}

	for _, b := range ballots {
		for _, rc := range b.Rankings {
			i, ok := index[rc.OptionID]
			if !ok {
				// Rejected at submission; skip rather than fail scoring.
				continue
			}
			results[i].Score = addScore(results[i].Score, Points(n, rc.Rank))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// addScore adds b to a, clamping at the int bounds instead of wrapping.
func addScore(a, b int) int {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt
	case b < 0 && sum > a:
		return math.MinInt
	}
	return sum
}

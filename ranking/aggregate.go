// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/rankstuff/models"
)

// MergeResults sums per-poll scores by option id into one ranked entry
// list. An option missing from a poll contributes nothing from it. The
// label comes from the last poll that supplied the option. Equal totals
// keep first-appearance order.
func MergeResults(perPoll ...[]models.OptionResult) []models.ChartEntry {
	var entries []models.ChartEntry
	index := make(map[string]int)

	for _, results := range perPoll {
		for _, r := range results {
			i, ok := index[r.OptionID]
			if !ok {
				i = len(entries)
				index[r.OptionID] = i
				entries = append(entries, models.ChartEntry{ItemID: r.OptionID})
			}
			entries[i].Label = r.Label
			entries[i].Score = addScore(entries[i].Score, r.Score)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	if entries == nil {
		entries = []models.ChartEntry{}
	}
	return entries
}

// ApplyMovement sets PreviousRank on each entry of next from the rank the
// same item held in previous. Items absent from previous get nil.
func ApplyMovement(previous, next []models.ChartEntry) {
	prevRanks := make(map[string]int, len(previous))
	for _, e := range previous {
		prevRanks[e.ItemID] = e.Rank
	}

	for i := range next {
		next[i].PreviousRank = nil
		if rank, ok := prevRanks[next[i].ItemID]; ok {
			next[i].PreviousRank = &rank
		}
	}
}

// RefreshChart recomputes chart entries from every referenced poll and
// returns the chart with its entry list fully replaced. Any poll that
// cannot be resolved fails the whole refresh with a validation error and
// leaves chart untouched.
func RefreshChart(ctx context.Context, chart models.Chart, lookup PollLookup, now time.Time) (models.Chart, error) {
	perPoll := make([][]models.OptionResult, 0, len(chart.PollIDs))

	for _, pollID := range chart.PollIDs {
		p, ballots, ok, err := lookup.LookupPoll(ctx, pollID)
		if err != nil {
			return chart, fmt.Errorf("failed to resolve poll %s: %w", pollID, err)
		}
		if !ok {
			return chart, validationErr("Poll not found: %s", pollID)
		}
		perPoll = append(perPoll, ScorePoll(p, ballots))
	}

	entries := MergeResults(perPoll...)
	ApplyMovement(chart.Entries, entries)

	chart.Entries = entries
	chart.UpdatedAt = now
	return chart, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/rankstuff/models"
)

const (
	MaxTitleLength = 200
	MinOptions     = 2
	// MaxRank bounds ranks under every policy.
	MaxRank = math.MaxInt32
)

// BallotPolicy selects how strictly ballot ranks are checked.
type BallotPolicy int

const (
	// PolicyPermissive accepts any rank in 1..MaxRank, repeated ranks
	// and partial ballots.
	PolicyPermissive BallotPolicy = iota
	// PolicyStrict additionally requires ranks within 1..n_options,
	// unique ranks and each option ranked at most once.
	PolicyStrict
)

func (p BallotPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "permissive"
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationErr("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return validationErr("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidatePoll checks the creation invariants of a poll.
func ValidatePoll(title string, options []models.Option) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if len(options) < MinOptions {
		return validationErr("poll must have at least %d options", MinOptions)
	}

	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt.ID) == "" {
			return validationErr("option id is required")
		}
		if strings.TrimSpace(opt.Label) == "" {
			return validationErr("label is required for option %s", opt.ID)
		}
		if seen[opt.ID] {
			return validationErr("Duplicate option ID: %s", opt.ID)
		}
		seen[opt.ID] = true
	}
	return nil
}

// ValidateRankings checks a ballot against the poll's option set. The
// first unknown option id is reported.
func ValidateRankings(p models.Poll, rankings []models.RankedChoice, policy BallotPolicy) error {
	if len(rankings) == 0 {
		return validationErr("rankings cannot be empty")
	}

	for _, rc := range rankings {
		if !p.HasOption(rc.OptionID) {
			return validationErr("Invalid option ID: %s", rc.OptionID)
		}
	}

	for _, rc := range rankings {
		if rc.Rank < 1 {
			return validationErr("rank for %s must be a positive integer", rc.OptionID)
		}
		if rc.Rank > MaxRank {
			return validationErr("rank for %s must not exceed %d", rc.OptionID, MaxRank)
		}
	}

	if policy != PolicyStrict {
		return nil
	}

	n := len(p.Options)
	ranks := make(map[int]bool, len(rankings))
	ranked := make(map[string]bool, len(rankings))
	for _, rc := range rankings {
		if rc.Rank > n {
			return validationErr("rank for %s must be between 1 and %d", rc.OptionID, n)
		}
		if ranked[rc.OptionID] {
			return validationErr("option %s is ranked more than once", rc.OptionID)
		}
		if ranks[rc.Rank] {
			return validationErr("rank %d is used more than once", rc.Rank)
		}
		ranked[rc.OptionID] = true
		ranks[rc.Rank] = true
	}
	return nil
}

// ValidateChart checks the creation invariants of a chart.
func ValidateChart(title string, pollIDs []string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if len(pollIDs) == 0 {
		return validationErr("chart must reference at least one poll")
	}
	for _, id := range pollIDs {
		if strings.TrimSpace(id) == "" {
			return validationErr("poll id is required")
		}
	}
	return nil
}

func normalizePage(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, validationErr("skip must not be negative")
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return 0, 0, validationErr("limit must be between 1 and %d", MaxLimit)
	}
	return skip, limit, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/rankstuff/models"
)

// CreateChart aggregates a new chart over pollIDs and stores it. Every
// poll must exist; nothing is stored when aggregation fails.
func (s *Service) CreateChart(ctx context.Context, req models.CreateChartRequest, owner string) (models.Chart, error) {
	if strings.TrimSpace(owner) == "" {
		return models.Chart{}, validationErr("owner is required")
	}
	if err := ValidateChart(req.Title, req.PollIDs); err != nil {
		return models.Chart{}, err
	}

	now := s.now()
	c := models.Chart{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		PollIDs:     append([]string(nil), req.PollIDs...),
		Entries:     []models.ChartEntry{},
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Aggregate before storing so a failed first pass leaves no empty chart.
	c, err := RefreshChart(ctx, c, s, s.now())
	if err != nil {
		return models.Chart{}, err
	}

	if err := s.charts.InsertChart(ctx, c); err != nil {
		return models.Chart{}, fmt.Errorf("failed to insert chart: %w", err)
	}

	slog.Info("chart created", "chart_id", c.ID, "owner_id", owner, "polls", len(c.PollIDs), "entries", len(c.Entries))
	return c, nil
}

// GetChart is a public read.
func (s *Service) GetChart(ctx context.Context, chartID string) (models.Chart, error) {
	c, ok, err := s.charts.GetChart(ctx, chartID)
	if err != nil {
		return models.Chart{}, fmt.Errorf("failed to get chart: %w", err)
	}
	if !ok {
		return models.Chart{}, newError(ErrNotFound, "Chart not found")
	}
	return c, nil
}

// RefreshChart recomputes the chart's entries from its polls. Owner only.
func (s *Service) RefreshChart(ctx context.Context, chartID, caller string) (models.Chart, error) {
	c, err := s.ownedChart(ctx, chartID, caller)
	if err != nil {
		return models.Chart{}, err
	}
	return s.refresh(ctx, c)
}

func (s *Service) refresh(ctx context.Context, c models.Chart) (models.Chart, error) {
	refreshed, err := RefreshChart(ctx, c, s, s.now())
	if err != nil {
		return models.Chart{}, err
	}

	replaced, err := s.charts.ReplaceChart(ctx, refreshed)
	if err != nil {
		return models.Chart{}, fmt.Errorf("failed to replace chart: %w", err)
	}
	if !replaced {
		return models.Chart{}, newError(ErrNotFound, "Chart not found")
	}

	slog.Info("chart refreshed", "chart_id", refreshed.ID, "entries", len(refreshed.Entries))
	return refreshed, nil
}

// DeleteChart removes a chart. Owner only.
func (s *Service) DeleteChart(ctx context.Context, chartID, caller string) error {
	c, err := s.ownedChart(ctx, chartID, caller)
	if err != nil {
		return err
	}

	deleted, err := s.charts.DeleteChart(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	if !deleted {
		return newError(ErrNotFound, "Chart not found")
	}

	slog.Info("chart deleted", "chart_id", c.ID)
	return nil
}

// ListCharts returns charts matching f, oldest first.
func (s *Service) ListCharts(ctx context.Context, f ChartFilter) ([]models.Chart, error) {
	skip, limit, err := normalizePage(f.Skip, f.Limit)
	if err != nil {
		return nil, err
	}
	f.Skip, f.Limit = skip, limit

	charts, err := s.charts.ListCharts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	return charts, nil
}

func (s *Service) ownedChart(ctx context.Context, chartID, caller string) (models.Chart, error) {
	c, err := s.GetChart(ctx, chartID)
	if err != nil {
		return models.Chart{}, err
	}
	if !CanModify(c.OwnerID, caller) {
		return models.Chart{}, newError(ErrForbidden, "You do not have permission to modify this chart")
	}
	return c, nil
}

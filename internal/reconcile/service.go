package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/fundlift/fundlift-backend/pkg/logger"
	"github.com/fundlift/fundlift-backend/pkg/metrics"
)

const jobName = "campaign_totals"

// Summary reports the outcome of one reconciliation sweep.
type Summary struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Skipped  int `json:"skipped"`
}

// Service periodically verifies that every campaign's raised total equals
// the sum of its applied donations and repairs the ones that drifted.
type Service interface {
	RunOnce(ctx context.Context) (Summary, error)
	Run(ctx context.Context, interval time.Duration) error
}

type service struct {
	repo      Repository
	logg      *logger.Logger
	metrics   *metrics.ReconcileMetrics
	batchSize int
}

// NewService wires a reconciliation service.
func NewService(repo Repository, logg *logger.Logger, reconcileMetrics *metrics.ReconcileMetrics, batchSize int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reconcile repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &service{
		repo:      repo,
		logg:      logg,
		metrics:   reconcileMetrics,
		batchSize: batchSize,
	}, nil
}

func (s *service) RunOnce(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{}

	drifted, err := s.repo.ListDrift(ctx, s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("list drift: %w", err)
	}
	summary.Checked = len(drifted)

	var totalDrift int64
	for _, row := range drifted {
		delta := row.RaisedMinorUnits - row.AppliedSum
		if delta < 0 {
			delta = -delta
		}
		totalDrift += delta
	}
	s.metrics.SetDrift(jobName, totalDrift)

	for _, row := range drifted {
		repaired, err := s.repo.RepairRaised(ctx, row.CampaignID, row.RaisedMinorUnits, row.AppliedSum)
		if err != nil {
			return summary, fmt.Errorf("repair campaign %s: %w", row.CampaignID, err)
		}
		if !repaired {
			// the total moved under us; the next sweep re-evaluates it
			summary.Skipped++
			continue
		}
		summary.Repaired++
		s.metrics.IncRepaired(jobName)

		logCtx := s.logg.WithCampaignID(ctx, row.CampaignID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"materialized_minor_units": row.RaisedMinorUnits,
			"applied_minor_units":      row.AppliedSum,
		})
		s.logg.Warn(logCtx, "repaired drifted campaign total")
	}

	s.metrics.ObserveDuration(jobName, time.Since(start))
	return summary, nil
}

// Run sweeps on the given interval until the context is cancelled.
func (s *service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("reconcile interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := s.RunOnce(ctx)
		if err != nil {
			s.logg.Error(ctx, "reconciliation sweep failed", err)
		} else if summary.Repaired > 0 || summary.Skipped > 0 {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"checked":  summary.Checked,
				"repaired": summary.Repaired,
				"skipped":  summary.Skipped,
			})
			s.logg.Info(logCtx, "reconciliation sweep finished")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

package reconcile

import (
	"context"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriftRow is a campaign whose materialized raised total disagrees with
// the sum of its applied donations.
type DriftRow struct {
	CampaignID       uuid.UUID
	RaisedMinorUnits int64
	AppliedSum       int64
}

// Repository exposes the drift detection and repair queries.
type Repository interface {
	ListDrift(ctx context.Context, limit int) ([]DriftRow, error)
	RepairRaised(ctx context.Context, campaignID uuid.UUID, expected, corrected int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reconciliation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListDrift(ctx context.Context, limit int) ([]DriftRow, error) {
	rows := []DriftRow{}
	err := r.db.WithContext(ctx).Raw(`
SELECT c.id AS campaign_id,
       c.raised_minor_units AS raised_minor_units,
       COALESCE(SUM(d.amount_minor_units), 0) AS applied_sum
FROM campaigns c
LEFT JOIN donations d ON d.campaign_id = c.id AND d.status = ?
GROUP BY c.id, c.raised_minor_units
HAVING c.raised_minor_units <> COALESCE(SUM(d.amount_minor_units), 0)
LIMIT ?`, enums.DonationStatusApplied, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RepairRaised rewrites the materialized total only if it still holds the
// value observed during drift detection, so a donation applied in between
// is never overwritten.
func (r *repository) RepairRaised(ctx context.Context, campaignID uuid.UUID, expected, corrected int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE campaigns SET raised_minor_units = ? WHERE id = ? AND raised_minor_units = ?`,
		corrected, campaignID, expected,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package donations

import (
	"context"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes donation persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, donation *models.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.DonationStatus) (bool, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID, opts historyQuery) ([]models.Donation, error)
	ListRecentByCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]models.Donation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a donation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// UpdateStatus flips a donation between lifecycle states only when it is
// currently in the expected state, so an apply can never run twice.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.DonationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByDonor serves the donor's history feed: applied donations only,
// newest first. Pending and rejected rows never reach the feed.
func (r *repository) ListByDonor(ctx context.Context, donorID uuid.UUID, opts historyQuery) ([]models.Donation, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("donor_id = ? AND status = ?", donorID, enums.DonationStatusApplied)

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	var rows []models.Donation
	if err := query.Order("created_at DESC").Order("id DESC").Limit(opts.limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListRecentByCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]models.Donation, error) {
	var rows []models.Donation
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND status = ?", campaignID, enums.DonationStatusApplied).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

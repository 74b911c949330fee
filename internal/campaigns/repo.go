package campaigns

import (
	"context"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes campaign persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	FindBySlug(ctx context.Context, slug string) (*models.Campaign, error)
	List(ctx context.Context, opts listQuery) ([]models.Campaign, error)
	IncrementRaised(ctx context.Context, id uuid.UUID, amountMinorUnits int64) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.CampaignStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a campaign repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) List(ctx context.Context, opts listQuery) ([]models.Campaign, error) {
	query := r.db.WithContext(ctx).Model(&models.Campaign{})

	if opts.category != nil {
		query = query.Where("category = ?", *opts.category)
	}
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at > ?) OR (created_at = ? AND id > ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	if opts.sort == SortTrending {
		query = query.Order("raised_minor_units DESC")
	}
	query = query.Order("created_at ASC").Order("id ASC")

	var rows []models.Campaign
	if err := query.Limit(opts.limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementRaised atomically adds to the materialized raised total. The
// status guard means an increment and a concurrent close cannot both win:
// the row update either applies against an active campaign or not at all.
func (r *repository) IncrementRaised(ctx context.Context, id uuid.UUID, amountMinorUnits int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, enums.CampaignStatusActive).
		UpdateColumn("raised_minor_units", gorm.Expr("raised_minor_units + ?", amountMinorUnits))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TransitionStatus moves a campaign between lifecycle states only when it
// is currently in the expected state.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.CampaignStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/money"
)

// Campaign is the authoritative ledger entry for a fundraising campaign:
// the single source of truth for (goal, raised, status). RaisedMinorUnits
// is a materialized aggregate of applied donations and is mutated only
// through the donation transaction processor.
type Campaign struct {
	ID               uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug             string                `gorm:"column:slug;not null;uniqueIndex"`
	Title            string                `gorm:"column:title;not null"`
	Description      string                `gorm:"column:description;type:text;not null"`
	Category         enums.CampaignCategory `gorm:"column:category;not null;index"`
	CreatorID        uuid.UUID             `gorm:"column:creator_id;type:uuid;not null;index"`
	ImageID          *string               `gorm:"column:image_id"`
	GoalMinorUnits   int64                 `gorm:"column:goal_minor_units;not null"`
	RaisedMinorUnits int64                 `gorm:"column:raised_minor_units;not null;default:0"`
	Currency         enums.Currency        `gorm:"column:currency;not null;default:'USD'"`
	Status           enums.CampaignStatus  `gorm:"column:status;not null;default:'draft';index"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Goal returns the funding goal as a Money value.
func (c Campaign) Goal() money.Money {
	return money.Money{AmountMinorUnits: c.GoalMinorUnits, Currency: c.Currency}
}

// Raised returns the raised-to-date total as a Money value.
func (c Campaign) Raised() money.Money {
	return money.Money{AmountMinorUnits: c.RaisedMinorUnits, Currency: c.Currency}
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/money"
)

// Donation is the append-only record of a single contribution. Once a
// donation reaches the applied status its amount has been reflected in
// the target campaign's raised total exactly once; the row is never
// updated again and never deleted.
type Donation struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID       uuid.UUID            `gorm:"column:campaign_id;type:uuid;not null;index"`
	DonorID          *uuid.UUID           `gorm:"column:donor_id;type:uuid;index"`
	AmountMinorUnits int64                `gorm:"column:amount_minor_units;not null"`
	Currency         enums.Currency       `gorm:"column:currency;not null"`
	Message          *string              `gorm:"column:message"`
	Status           enums.DonationStatus `gorm:"column:status;not null;default:'pending';index"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// Amount returns the contribution as a Money value.
func (d Donation) Amount() money.Money {
	return money.Money{AmountMinorUnits: d.AmountMinorUnits, Currency: d.Currency}
}

// IsAnonymous reports whether the donation carries no donor reference.
func (d Donation) IsAnonymous() bool {
	return d.DonorID == nil
}

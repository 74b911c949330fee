package donations

import (
	"time"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/money"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
	"github.com/google/uuid"
)

// HistoryParams paginates a donor's donation history.
type HistoryParams struct {
	pkgpagination.Params
}

// HistoryResult is one page of a donor's donations plus the next cursor.
type HistoryResult struct {
	Items  []HistoryItem `json:"items"`
	Cursor string        `json:"cursor"`
}

// HistoryItem is a single donation as shown to the donor who made it.
type HistoryItem struct {
	ID         uuid.UUID            `json:"id"`
	CampaignID uuid.UUID            `json:"campaign_id"`
	Amount     money.Money          `json:"amount"`
	Message    string               `json:"message,omitempty"`
	Status     enums.DonationStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

type historyQuery struct {
	limit  int
	cursor *pkgpagination.Cursor
}

func toHistoryItem(m models.Donation) HistoryItem {
	item := HistoryItem{
		ID:         m.ID,
		CampaignID: m.CampaignID,
		Amount:     m.Amount(),
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
	}
	if m.Message != nil {
		item.Message = *m.Message
	}
	return item
}

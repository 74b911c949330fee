package campaigns

import (
	"time"

	"github.com/fundlift/fundlift-backend/internal/identity"
	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Sort selects the listing order.
type Sort string

const (
	// SortCreated is the default: insertion order (created_at, id
	// ascending), cursor-paginated.
	SortCreated Sort = "created"
	// SortTrending ranks by raised total descending. Trending is a
	// ranked view, not a stable sequence, so it does not paginate by
	// cursor; it serves a single page of up to limit rows.
	SortTrending Sort = "trending"
)

// ParseSort maps a query value onto a listing order.
func ParseSort(value string) (Sort, bool) {
	switch Sort(value) {
	case "", SortCreated:
		return SortCreated, true
	case SortTrending:
		return SortTrending, true
	}
	return "", false
}

// ListParams filters and paginates the public campaign listing.
type ListParams struct {
	Category *enums.CampaignCategory
	Status   *enums.CampaignStatus
	Sort     Sort
	pkgpagination.Params
}

// ListResult is one page of campaigns plus the cursor for the next page.
type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem is the read-model row served to listings: the stored campaign
// joined with its creator profile and derived progress.
type ListItem struct {
	ID        uuid.UUID              `json:"id"`
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Category  enums.CampaignCategory `json:"category"`
	ImageID   string                 `json:"image_id,omitempty"`
	Status    enums.CampaignStatus   `json:"status"`
	Creator   identity.Profile       `json:"creator"`
	Progress  Progress               `json:"progress"`
	CreatedAt time.Time              `json:"created_at"`
}

// Detail extends a list item with the full description for campaign pages.
type Detail struct {
	ListItem
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listQuery struct {
	category *enums.CampaignCategory
	status   *enums.CampaignStatus
	sort     Sort
	limit    int
	cursor   *pkgpagination.Cursor
}

func toListItem(m models.Campaign, creator identity.Profile, progress Progress) ListItem {
	item := ListItem{
		ID:        m.ID,
		Slug:      m.Slug,
		Title:     m.Title,
		Category:  m.Category,
		Status:    m.Status,
		Creator:   creator,
		Progress:  progress,
		CreatedAt: m.CreatedAt,
	}
	if m.ImageID != nil {
		item.ImageID = *m.ImageID
	}
	return item
}

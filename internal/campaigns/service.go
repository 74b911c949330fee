package campaigns

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fundlift/fundlift-backend/internal/identity"
	"github.com/fundlift/fundlift-backend/pkg/db"
	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes campaign listing, detail, and lifecycle semantics.
type Service interface {
	ListCampaigns(ctx context.Context, params ListParams) (*ListResult, error)
	GetCampaign(ctx context.Context, ref string) (*Detail, error)
	CreateCampaign(ctx context.Context, creatorID uuid.UUID, input CreateCampaignInput) (*models.Campaign, error)
	ApproveCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	CloseCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

type service struct {
	repo     Repository
	profiles identity.Service
}

// CreateCampaignInput holds the data required to open a draft campaign.
type CreateCampaignInput struct {
	Title          string
	Description    string
	Category       enums.CampaignCategory
	GoalMinorUnits int64
	Currency       enums.Currency
	ImageID        string
	Slug           string
}

// NewService wires a campaign service with its repository and the identity
// service used to resolve creator profiles.
func NewService(repo Repository, profiles identity.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaign repository required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("identity service required")
	}
	return &service{repo: repo, profiles: profiles}, nil
}

func (s *service) ListCampaigns(ctx context.Context, params ListParams) (*ListResult, error) {
	sort, ok := ParseSort(string(params.Sort))
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort %q", params.Sort))
	}
	if sort == SortTrending && params.Cursor != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trending sort does not paginate by cursor")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	normalized := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, listQuery{
		category: params.Category,
		status:   params.Status,
		sort:     sort,
		limit:    pkgpagination.LimitWithBuffer(params.Limit),
		cursor:   cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}

	result := &ListResult{Items: []ListItem{}}
	if len(rows) > normalized {
		rows = rows[:normalized]
		if sort == SortCreated {
			last := rows[len(rows)-1]
			result.Cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		}
	}

	creatorIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		creatorIDs = append(creatorIDs, row.CreatorID)
	}
	profiles, err := s.profiles.ProfilesByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		progress, perr := ComputeProgress(row.Raised(), row.Goal())
		if perr != nil {
			return nil, perr
		}
		result.Items = append(result.Items, toListItem(row, profiles[row.CreatorID], progress))
	}
	return result, nil
}

// GetCampaign resolves a campaign by ID or, when ref is not a UUID, by slug.
func (s *service) GetCampaign(ctx context.Context, ref string) (*Detail, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign reference is required")
	}

	var (
		campaign *models.Campaign
		err      error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		campaign, err = s.repo.FindByID(ctx, id)
	} else {
		campaign, err = s.repo.FindBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}

	creator, err := s.profiles.ProfileByID(ctx, campaign.CreatorID)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			creator = &identity.Profile{ID: campaign.CreatorID}
		} else {
			return nil, err
		}
	}
	progress, err := ComputeProgress(campaign.Raised(), campaign.Goal())
	if err != nil {
		return nil, err
	}

	return &Detail{
		ListItem:    toListItem(*campaign, *creator, progress),
		Description: campaign.Description,
		UpdatedAt:   campaign.UpdatedAt,
	}, nil
}

func (s *service) CreateCampaign(ctx context.Context, creatorID uuid.UUID, input CreateCampaignInput) (*models.Campaign, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator identity missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", input.Category))
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency %q", input.Currency))
	}
	if input.GoalMinorUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidGoal, "goal must be positive")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title does not produce a usable slug")
	}

	campaign := &models.Campaign{
		Slug:           slug,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Category:       input.Category,
		CreatorID:      creatorID,
		GoalMinorUnits: input.GoalMinorUnits,
		Currency:       currency,
		Status:         enums.CampaignStatusDraft,
	}
	if input.ImageID != "" {
		image := input.ImageID
		campaign.ImageID = &image
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a campaign with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}
	return campaign, nil
}

func (s *service) ApproveCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.transition(ctx, id, enums.CampaignStatusDraft, enums.CampaignStatusActive)
}

func (s *service) CloseCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.transition(ctx, id, enums.CampaignStatusActive, enums.CampaignStatusClosed)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, from, to enums.CampaignStatus) (*models.Campaign, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}

	moved, err := s.repo.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transition campaign status")
	}
	if !moved {
		campaign, ferr := s.repo.FindByID(ctx, id)
		if ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ferr, "load campaign")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("campaign is %s, expected %s", campaign.Status, from))
	}

	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return campaign, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

package campaigns

import (
	"context"
	"testing"
	"time"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCampaignsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:campaigns_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS campaigns (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  creator_id TEXT NOT NULL,
  image_id TEXT,
  goal_minor_units INTEGER NOT NULL,
  raised_minor_units INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  status TEXT NOT NULL DEFAULT 'draft',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedCampaign(t *testing.T, db *gorm.DB, status enums.CampaignStatus, createdAt time.Time) models.Campaign {
	t.Helper()

	campaign := models.Campaign{
		ID:             uuid.New(),
		Slug:           "camp-" + uuid.NewString(),
		Title:          "Test Campaign",
		Description:    "A campaign used in repository tests.",
		Category:       enums.CampaignCategoryCommunity,
		CreatorID:      uuid.New(),
		GoalMinorUnits: 500000,
		Currency:       enums.CurrencyUSD,
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	require.NoError(t, db.Create(&campaign).Error)
	return campaign
}

func TestRepositoryIncrementRaised(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedCampaign(t, db, enums.CampaignStatusActive, time.Now().UTC())

	applied, err := repo.IncrementRaised(ctx, active.ID, 2500)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.IncrementRaised(ctx, active.ID, 1500)
	require.NoError(t, err)
	assert.True(t, applied)

	reloaded, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), reloaded.RaisedMinorUnits)
}

func TestRepositoryIncrementRaisedGuardsStatus(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	closed := seedCampaign(t, db, enums.CampaignStatusClosed, time.Now().UTC())

	applied, err := repo.IncrementRaised(ctx, closed.ID, 2500)
	require.NoError(t, err)
	assert.False(t, applied)

	reloaded, err := repo.FindByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.RaisedMinorUnits)
}

func TestRepositoryTransitionStatus(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	draft := seedCampaign(t, db, enums.CampaignStatusDraft, time.Now().UTC())

	moved, err := repo.TransitionStatus(ctx, draft.ID, enums.CampaignStatusDraft, enums.CampaignStatusActive)
	require.NoError(t, err)
	assert.True(t, moved)

	// repeating the same transition must be a no-op
	moved, err = repo.TransitionStatus(ctx, draft.ID, enums.CampaignStatusDraft, enums.CampaignStatusActive)
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err := repo.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CampaignStatusActive, reloaded.Status)
}

func TestRepositoryListPaginatesDeterministically(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var seeded []models.Campaign
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedCampaign(t, db, enums.CampaignStatusActive, base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := repo.List(ctx, listQuery{limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, seeded[0].ID, first[0].ID)
	assert.Equal(t, seeded[1].ID, first[1].ID)
	assert.Equal(t, seeded[2].ID, first[2].ID)

	cursor := &pagination.Cursor{CreatedAt: first[2].CreatedAt, ID: first[2].ID}
	second, err := repo.List(ctx, listQuery{limit: 3, cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, seeded[3].ID, second[0].ID)
	assert.Equal(t, seeded[4].ID, second[1].ID)
}

func TestRepositoryListTrendingOrdersByRaised(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	low := seedCampaign(t, db, enums.CampaignStatusActive, base.Add(2*time.Minute))
	high := seedCampaign(t, db, enums.CampaignStatusActive, base)
	mid := seedCampaign(t, db, enums.CampaignStatusActive, base.Add(time.Minute))

	for id, amount := range map[uuid.UUID]int64{low.ID: 1000, high.ID: 90000, mid.ID: 45000} {
		applied, err := repo.IncrementRaised(ctx, id, amount)
		require.NoError(t, err)
		require.True(t, applied)
	}

	rows, err := repo.List(ctx, listQuery{limit: 10, sort: SortTrending})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, high.ID, rows[0].ID)
	assert.Equal(t, mid.ID, rows[1].ID)
	assert.Equal(t, low.ID, rows[2].ID)
}

func TestRepositoryListFilters(t *testing.T) {
	t.Parallel()

	db := setupCampaignsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	active := seedCampaign(t, db, enums.CampaignStatusActive, now)
	seedCampaign(t, db, enums.CampaignStatusDraft, now.Add(time.Second))

	status := enums.CampaignStatusActive
	rows, err := repo.List(ctx, listQuery{limit: 10, status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)

	category := enums.CampaignCategoryFilm
	rows, err = repo.List(ctx, listQuery{limit: 10, category: &category})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

package reconcile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReconcileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reconcile_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  avatar_id TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS campaigns (
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
);`,
		`CREATE TABLE IF NOT EXISTS donations (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  donor_id TEXT,
  amount_minor_units INTEGER NOT NULL,
  currency TEXT NOT NULL,
  message TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedReconcileCampaign(t *testing.T, db *gorm.DB, raised int64) models.Campaign {
	t.Helper()

	now := time.Now().UTC()
	campaign := models.Campaign{
		ID:               uuid.New(),
		Slug:             "camp-" + uuid.NewString(),
		Title:            "Reconcile Campaign",
		Description:      "Campaign used by reconciliation tests.",
		Category:         enums.CampaignCategoryFilm,
		CreatorID:        uuid.New(),
		GoalMinorUnits:   1200000,
		RaisedMinorUnits: raised,
		Currency:         enums.CurrencyUSD,
		Status:           enums.CampaignStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(&campaign).Error)
	return campaign
}

func seedDonation(t *testing.T, db *gorm.DB, campaignID uuid.UUID, amount int64, status enums.DonationStatus) {
	t.Helper()

	now := time.Now().UTC()
	donation := models.Donation{
		ID:               uuid.New(),
		CampaignID:       campaignID,
		AmountMinorUnits: amount,
		Currency:         enums.CurrencyUSD,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(&donation).Error)
}

func newReconcileService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "reconcile-test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), logg, nil, 100)
	require.NoError(t, err)
	return svc
}

func TestRunOnceRepairsDrift(t *testing.T) {
	t.Parallel()

	db := setupReconcileTestDB(t)
	svc := newReconcileService(t, db)

	// materialized total says 5000 but only 3000 was actually applied
	drifted := seedReconcileCampaign(t, db, 5000)
	seedDonation(t, db, drifted.ID, 2000, enums.DonationStatusApplied)
	seedDonation(t, db, drifted.ID, 1000, enums.DonationStatusApplied)
	seedDonation(t, db, drifted.ID, 9999, enums.DonationStatusRejected)

	consistent := seedReconcileCampaign(t, db, 1500)
	seedDonation(t, db, consistent.ID, 1500, enums.DonationStatusApplied)

	summary, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 1, summary.Repaired)
	assert.Equal(t, 0, summary.Skipped)

	var repaired models.Campaign
	require.NoError(t, db.First(&repaired, "id = ?", drifted.ID).Error)
	assert.Equal(t, int64(3000), repaired.RaisedMinorUnits)

	var untouched models.Campaign
	require.NoError(t, db.First(&untouched, "id = ?", consistent.ID).Error)
	assert.Equal(t, int64(1500), untouched.RaisedMinorUnits)
}

func TestRunOnceCountsPendingAsUnapplied(t *testing.T) {
	t.Parallel()

	db := setupReconcileTestDB(t)
	svc := newReconcileService(t, db)

	campaign := seedReconcileCampaign(t, db, 2000)
	seedDonation(t, db, campaign.ID, 2000, enums.DonationStatusPending)

	summary, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Repaired)

	var repaired models.Campaign
	require.NoError(t, db.First(&repaired, "id = ?", campaign.ID).Error)
	assert.Equal(t, int64(0), repaired.RaisedMinorUnits)
}

// seedMigrationStatements pulls the Up statements out of the seed
// migration so the fixture data can run against the test database.
func seedMigrationStatements(t *testing.T) []string {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "20240601130000_seed_campaigns.sql"))
	require.NoError(t, err)

	up, _, _ := strings.Cut(string(raw), "-- +goose Down")
	var statements []string
	for _, chunk := range strings.Split(up, "-- +goose StatementBegin")[1:] {
		stmt, _, _ := strings.Cut(chunk, "-- +goose StatementEnd")
		statements = append(statements, strings.TrimSpace(stmt))
	}
	return statements
}

// Every campaign the seed migration ships must have its raised total
// backed by applied donations, otherwise the first reconcile sweep
// would rewrite the fixture data.
func TestRunOnceFindsSeedDataConsistent(t *testing.T) {
	t.Parallel()

	db := setupReconcileTestDB(t)
	for _, stmt := range seedMigrationStatements(t) {
		require.NoError(t, db.Exec(stmt).Error)
	}

	svc := newReconcileService(t, db)
	summary, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)

	var raised int64
	require.NoError(t, db.Raw(
		`SELECT raised_minor_units FROM campaigns WHERE slug = ?`,
		"help-build-our-community-garden",
	).Scan(&raised).Error)
	assert.Equal(t, int64(285000), raised)
}

func TestRunOnceNoDrift(t *testing.T) {
	t.Parallel()

	db := setupReconcileTestDB(t)
	svc := newReconcileService(t, db)

	campaign := seedReconcileCampaign(t, db, 4000)
	seedDonation(t, db, campaign.ID, 4000, enums.DonationStatusApplied)

	summary, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	"github.com/fundlift/fundlift-backend/pkg/metrics"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
)

// txRunner runs fn inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service accepts donations and applies them to campaign totals.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Receipt, error)
	History(ctx context.Context, donorID uuid.UUID, params HistoryParams) (*HistoryResult, error)
	RecentForCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]HistoryItem, error)
}

// Receipt is what a successful submission hands back: the settled
// donation plus the campaign snapshot after its total moved.
type Receipt struct {
	Donation *models.Donation
	Campaign *models.Campaign
}

// SubmitInput holds one donation attempt. A nil DonorID records an
// anonymous donation.
type SubmitInput struct {
	CampaignID       uuid.UUID
	DonorID          *uuid.UUID
	AmountMinorUnits int64
	Currency         enums.Currency
	Message          string
}

// Options tunes how hard the processor fights for a contended campaign row.
type Options struct {
	MaxAttempts uint64
	BackoffBase time.Duration
}

type service struct {
	repo         Repository
	campaignRepo campaigns.Repository
	tx           txRunner
	logg         *logger.Logger
	metrics      *metrics.DonationMetrics
	maxAttempts  uint64
	backoffBase  time.Duration
}

// NewService wires the donation transaction processor.
func NewService(repo Repository, campaignRepo campaigns.Repository, tx txRunner, logg *logger.Logger, donationMetrics *metrics.DonationMetrics, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donation repository required")
	}
	if campaignRepo == nil {
		return nil, fmt.Errorf("campaign repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = 25 * time.Millisecond
	}
	return &service{
		repo:         repo,
		campaignRepo: campaignRepo,
		tx:           tx,
		logg:         logg,
		metrics:      donationMetrics,
		maxAttempts:  maxAttempts,
		backoffBase:  backoffBase,
	}, nil
}

// Submit validates a donation, records it as pending, then atomically
// applies it to the campaign's raised total. The donation row ends in
// exactly one of two terminal states: applied when the campaign total
// reflects the amount, rejected otherwise.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Receipt, error) {
	if input.CampaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	if input.AmountMinorUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "donation amount must be positive")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency %q", input.Currency))
	}
	if input.DonorID != nil && *input.DonorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id must not be the zero uuid")
	}

	campaign, err := s.campaignRepo.FindByID(ctx, input.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	if campaign.Currency != input.Currency {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount,
			fmt.Sprintf("campaign accepts %s, got %s", campaign.Currency, input.Currency))
	}
	if campaign.Status != enums.CampaignStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeCampaignNotActive,
			fmt.Sprintf("campaign is %s", campaign.Status))
	}

	donation := &models.Donation{
		CampaignID:       input.CampaignID,
		DonorID:          input.DonorID,
		AmountMinorUnits: input.AmountMinorUnits,
		Currency:         input.Currency,
		Status:           enums.DonationStatusPending,
	}
	if message := strings.TrimSpace(input.Message); message != "" {
		donation.Message = &message
	}
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record donation")
	}

	start := time.Now()
	applyErr := s.apply(ctx, donation)
	outcome := outcomeApplied
	if applyErr != nil {
		outcome = outcomeRejected
		if pkgerrors.Is(applyErr, pkgerrors.CodeConflict) {
			outcome = outcomeConflict
		}
	}
	s.metrics.ObserveApplyDuration(outcome, time.Since(start))
	s.metrics.IncOutcome(outcome)

	if applyErr != nil {
		s.reject(ctx, donation)
		return nil, applyErr
	}

	s.metrics.ObserveAmount(string(donation.Currency), donation.AmountMinorUnits)
	donation.Status = enums.DonationStatusApplied

	logCtx := s.logg.WithCampaignID(ctx, donation.CampaignID.String())
	logCtx = s.logg.WithField(logCtx, "donation_id", donation.ID.String())
	logCtx = s.logg.WithField(logCtx, "amount_minor_units", donation.AmountMinorUnits)
	s.logg.Info(logCtx, "donation applied")

	snapshot, err := s.campaignRepo.FindByID(ctx, donation.CampaignID)
	if err != nil {
		// the donation is applied either way; fall back to the pre-apply
		// row adjusted by the amount we just added
		s.logg.Error(logCtx, "failed to refresh campaign after apply", err)
		campaign.RaisedMinorUnits += donation.AmountMinorUnits
		snapshot = campaign
	}

	return &Receipt{Donation: donation, Campaign: snapshot}, nil
}

// apply increments the campaign total and flips the donation to applied
// in one transaction. The conditional increment both serializes writers
// on the campaign row and guards against a concurrent close; a lost race
// against another writer backs off and retries.
func (s *service) apply(ctx context.Context, donation *models.Donation) error {
	backoff := retry.WithMaxRetries(s.maxAttempts-1, retry.NewExponential(s.backoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			applied, err := s.campaignRepo.WithTx(tx).IncrementRaised(ctx, donation.CampaignID, donation.AmountMinorUnits)
			if err != nil {
				return retry.RetryableError(err)
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeCampaignNotActive, "campaign stopped accepting donations")
			}

			flipped, err := s.repo.WithTx(tx).UpdateStatus(ctx, donation.ID, enums.DonationStatusPending, enums.DonationStatusApplied)
			if err != nil {
				return retry.RetryableError(err)
			}
			if !flipped {
				// someone else already settled this donation; abort the increment
				return pkgerrors.New(pkgerrors.CodeConflict, "donation already settled")
			}
			return nil
		})
		if txErr != nil {
			return txErr
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not apply donation after retries")
}

// reject is best-effort bookkeeping; the donation stays pending if it fails.
func (s *service) reject(ctx context.Context, donation *models.Donation) {
	flipped, err := s.repo.UpdateStatus(ctx, donation.ID, enums.DonationStatusPending, enums.DonationStatusRejected)
	if err != nil {
		logCtx := s.logg.WithField(ctx, "donation_id", donation.ID.String())
		s.logg.Error(logCtx, "failed to mark donation rejected", err)
		return
	}
	if flipped {
		donation.Status = enums.DonationStatusRejected
	}
}

func (s *service) History(ctx context.Context, donorID uuid.UUID, params HistoryParams) (*HistoryResult, error) {
	if donorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id is required")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	normalized := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByDonor(ctx, donorID, historyQuery{
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list donations")
	}

	result := &HistoryResult{Items: []HistoryItem{}}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		result.Cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for _, row := range rows {
		result.Items = append(result.Items, toHistoryItem(row))
	}
	return result, nil
}

func (s *service) RecentForCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]HistoryItem, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	rows, err := s.repo.ListRecentByCampaign(ctx, campaignID, pkgpagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaign donations")
	}
	items := make([]HistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toHistoryItem(row))
	}
	return items, nil
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/api/middleware"
	"github.com/fundlift/fundlift-backend/internal/donations"
	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
)

type testDonationService struct {
	submitFn  func(ctx context.Context, input donations.SubmitInput) (*donations.Receipt, error)
	historyFn func(ctx context.Context, donorID uuid.UUID, params donations.HistoryParams) (*donations.HistoryResult, error)
	recentFn  func(ctx context.Context, campaignID uuid.UUID, limit int) ([]donations.HistoryItem, error)
}

func (s *testDonationService) Submit(ctx context.Context, input donations.SubmitInput) (*donations.Receipt, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "submit not stubbed")
}

func (s *testDonationService) History(ctx context.Context, donorID uuid.UUID, params donations.HistoryParams) (*donations.HistoryResult, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, donorID, params)
	}
	return &donations.HistoryResult{Items: []donations.HistoryItem{}}, nil
}

func (s *testDonationService) RecentForCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]donations.HistoryItem, error) {
	if s.recentFn != nil {
		return s.recentFn(ctx, campaignID, limit)
	}
	return nil, nil
}

func TestSubmitDonationAttachesDonor(t *testing.T) {
	campaignID := uuid.New()
	donorID := uuid.New()

	var got donations.SubmitInput
	svc := &testDonationService{
		submitFn: func(ctx context.Context, input donations.SubmitInput) (*donations.Receipt, error) {
			got = input
			return &donations.Receipt{
				Donation: &models.Donation{
					ID:               uuid.New(),
					CampaignID:       input.CampaignID,
					DonorID:          input.DonorID,
					AmountMinorUnits: input.AmountMinorUnits,
					Currency:         input.Currency,
					Status:           enums.DonationStatusApplied,
				},
				Campaign: &models.Campaign{
					ID:               input.CampaignID,
					GoalMinorUnits:   500000,
					RaisedMinorUnits: 285000 + input.AmountMinorUnits,
					Currency:         input.Currency,
					Status:           enums.CampaignStatusActive,
				},
			}, nil
		},
	}

	body := `{"amount_minor_units": 2500, "currency": "USD", "message": "Good luck!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/donations", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), donorID.String()))
	req = withURLParam(req, "campaignID", campaignID.String())

	resp := httptest.NewRecorder()
	SubmitDonation(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.CampaignID != campaignID {
		t.Fatalf("unexpected campaign id %s", got.CampaignID)
	}
	if got.DonorID == nil || *got.DonorID != donorID {
		t.Fatalf("donor not attached: %+v", got.DonorID)
	}
	if got.AmountMinorUnits != 2500 || got.Currency != enums.CurrencyUSD {
		t.Fatalf("unexpected amount %d %s", got.AmountMinorUnits, got.Currency)
	}

	var envelope struct {
		Data struct {
			Status   string `json:"status"`
			Campaign struct {
				Raised struct {
					AmountMinorUnits int64 `json:"amount_minor_units"`
				} `json:"raised"`
			} `json:"campaign"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != string(enums.DonationStatusApplied) {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
	if envelope.Data.Campaign.Raised.AmountMinorUnits != 287500 {
		t.Fatalf("campaign snapshot not included: %s", resp.Body.String())
	}
}

func TestSubmitDonationAnonymousDropsDonor(t *testing.T) {
	campaignID := uuid.New()

	var got donations.SubmitInput
	svc := &testDonationService{
		submitFn: func(ctx context.Context, input donations.SubmitInput) (*donations.Receipt, error) {
			got = input
			return &donations.Receipt{
				Donation: &models.Donation{ID: uuid.New(), Status: enums.DonationStatusApplied, Currency: input.Currency},
			}, nil
		},
	}

	body := `{"amount_minor_units": 100, "currency": "USD", "anonymous": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/donations", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withURLParam(req, "campaignID", campaignID.String())

	resp := httptest.NewRecorder()
	SubmitDonation(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.DonorID != nil {
		t.Fatalf("anonymous donation carried a donor id %s", got.DonorID)
	}
}

func TestSubmitDonationRejectsBadBody(t *testing.T) {
	campaignID := uuid.New()
	cases := map[string]string{
		"zero amount":      `{"amount_minor_units": 0, "currency": "USD"}`,
		"unknown currency": `{"amount_minor_units": 100, "currency": "JPY"}`,
		"unknown field":    `{"amount_minor_units": 100, "currency": "USD", "tip": 50}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/donations", strings.NewReader(body))
			req = withURLParam(req, "campaignID", campaignID.String())

			resp := httptest.NewRecorder()
			SubmitDonation(&testDonationService{}, testLogger())(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSubmitDonationRequiresUUIDCampaign(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/not-a-uuid/donations", strings.NewReader(`{}`))
	req = withURLParam(req, "campaignID", "not-a-uuid")

	resp := httptest.NewRecorder()
	SubmitDonation(&testDonationService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestMyDonationsRequiresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/donations", nil)
	resp := httptest.NewRecorder()
	MyDonations(&testDonationService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestMyDonationsForwardsPagination(t *testing.T) {
	donorID := uuid.New()

	var gotDonor uuid.UUID
	var gotParams donations.HistoryParams
	svc := &testDonationService{
		historyFn: func(ctx context.Context, id uuid.UUID, params donations.HistoryParams) (*donations.HistoryResult, error) {
			gotDonor = id
			gotParams = params
			return &donations.HistoryResult{Items: []donations.HistoryItem{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/donations?limit=5&cursor=abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), donorID.String()))

	resp := httptest.NewRecorder()
	MyDonations(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotDonor != donorID {
		t.Fatalf("unexpected donor %s", gotDonor)
	}
	if gotParams.Limit != 5 || gotParams.Cursor != "abc" {
		t.Fatalf("pagination not forwarded: %+v", gotParams)
	}
}

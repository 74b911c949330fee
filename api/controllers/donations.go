package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/api/middleware"
	"github.com/fundlift/fundlift-backend/api/responses"
	"github.com/fundlift/fundlift-backend/api/validators"
	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/internal/donations"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
)

type submitDonationRequest struct {
	AmountMinorUnits int64  `json:"amount_minor_units" validate:"required,gt=0"`
	Currency         string `json:"currency" validate:"required,oneof=USD EUR GBP"`
	Message          string `json:"message" validate:"max=500"`
	Anonymous        bool   `json:"anonymous"`
}

// SubmitDonation accepts a donation against a campaign. Authenticated
// donors are attached to the donation unless they ask to stay anonymous;
// unauthenticated submissions are always anonymous.
func SubmitDonation(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donation service unavailable"))
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "campaign id must be a uuid"))
			return
		}

		var body submitDonationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var donorID *uuid.UUID
		if !body.Anonymous {
			if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
				if parsed, err := uuid.Parse(raw); err == nil {
					donorID = &parsed
				}
			}
		}

		receipt, err := svc.Submit(r.Context(), donations.SubmitInput{
			CampaignID:       campaignID,
			DonorID:          donorID,
			AmountMinorUnits: body.AmountMinorUnits,
			Currency:         enums.Currency(body.Currency),
			Message:          body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donation := receipt.Donation
		payload := map[string]any{
			"donation_id": donation.ID,
			"status":      donation.Status,
			"amount":      donation.Amount(),
		}
		if snapshot := receipt.Campaign; snapshot != nil {
			campaign := map[string]any{
				"id":     snapshot.ID,
				"raised": snapshot.Raised(),
				"goal":   snapshot.Goal(),
			}
			if progress, err := campaigns.ComputeProgress(snapshot.Raised(), snapshot.Goal()); err == nil {
				campaign["progress"] = progress
			}
			payload["campaign"] = campaign
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payload)
	}
}

// MyDonations serves the authenticated donor's donation history,
// newest first.
func MyDonations(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donation service unavailable"))
			return
		}

		donorID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pkgpagination.DefaultLimit, 1, pkgpagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), donorID, donations.HistoryParams{
			Params: pkgpagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundlift/fundlift-backend/api/responses"
	"github.com/fundlift/fundlift-backend/api/validators"
	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/internal/donations"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	pkgpagination "github.com/fundlift/fundlift-backend/pkg/pagination"
)

// ListCampaigns serves the public campaign listing with optional
// category/status filters, a sort mode, and cursor pagination.
func ListCampaigns(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pkgpagination.DefaultLimit, 1, pkgpagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := validators.ParseQueryCategory(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseQueryCampaignStatus(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sort, ok := campaigns.ParseSort(r.URL.Query().Get("sort"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort"))
			return
		}

		result, err := svc.ListCampaigns(r.Context(), campaigns.ListParams{
			Category: category,
			Status:   status,
			Sort:     sort,
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

// GetCampaign serves a single campaign by id or slug, including its
// derived progress and a handful of recent donations.
func GetCampaign(svc campaigns.Service, donationSvc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		detail, err := svc.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"campaign": detail}
		if donationSvc != nil {
			recent, err := donationSvc.RecentForCampaign(r.Context(), detail.ID, 10)
			if err == nil {
				payload["recent_donations"] = recent
			}
		}
		responses.WriteSuccess(w, payload)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/api/middleware"
	"github.com/fundlift/fundlift-backend/api/responses"
	"github.com/fundlift/fundlift-backend/api/validators"
	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/pkg/db/models"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/logger"
)

type createCampaignRequest struct {
	Title          string `json:"title" validate:"required,min=3,max=120"`
	Description    string `json:"description" validate:"required,min=10"`
	Category       string `json:"category" validate:"required"`
	GoalMinorUnits int64  `json:"goal_minor_units" validate:"required"`
	Currency       string `json:"currency" validate:"omitempty,oneof=USD EUR GBP"`
	ImageID        string `json:"image_id" validate:"omitempty,max=120"`
	Slug           string `json:"slug" validate:"omitempty,max=160"`
}

// AdminCreateCampaign opens a new campaign in draft state on behalf of
// its creator.
func AdminCreateCampaign(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		creatorID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity"))
			return
		}

		var body createCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.CreateCampaign(r.Context(), creatorID, campaigns.CreateCampaignInput{
			Title:          body.Title,
			Description:    body.Description,
			Category:       enums.CampaignCategory(body.Category),
			GoalMinorUnits: body.GoalMinorUnits,
			Currency:       enums.Currency(body.Currency),
			ImageID:        body.ImageID,
			Slug:           body.Slug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, campaignSummary(campaign))
	}
}

// AdminApproveCampaign moves a draft campaign into the active state so it
// can accept donations.
func AdminApproveCampaign(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return campaignTransition(svc, logg, func(svc campaigns.Service, r *http.Request, id uuid.UUID) (*models.Campaign, error) {
		return svc.ApproveCampaign(r.Context(), id)
	})
}

// AdminCloseCampaign finishes an active campaign. Closed campaigns keep
// their raised totals but stop accepting donations.
func AdminCloseCampaign(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return campaignTransition(svc, logg, func(svc campaigns.Service, r *http.Request, id uuid.UUID) (*models.Campaign, error) {
		return svc.CloseCampaign(r.Context(), id)
	})
}

func campaignTransition(svc campaigns.Service, logg *logger.Logger, apply func(campaigns.Service, *http.Request, uuid.UUID) (*models.Campaign, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "campaignID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "campaign id must be a uuid"))
			return
		}

		campaign, err := apply(svc, r, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaignSummary(campaign))
	}
}

func campaignSummary(campaign *models.Campaign) map[string]any {
	return map[string]any{
		"id":     campaign.ID,
		"slug":   campaign.Slug,
		"title":  campaign.Title,
		"status": campaign.Status,
		"goal":   campaign.Goal(),
	}
}

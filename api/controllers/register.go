package controllers

import (
	"net/http"
	"time"

	"github.com/fundlift/fundlift-backend/api/responses"
	"github.com/fundlift/fundlift-backend/api/validators"
	"github.com/fundlift/fundlift-backend/internal/identity"
	pkgAuth "github.com/fundlift/fundlift-backend/pkg/auth"
	"github.com/fundlift/fundlift-backend/pkg/config"
	"github.com/fundlift/fundlift-backend/pkg/db"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/logger"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=80"`
	AvatarID    string `json:"avatar_id" validate:"omitempty,max=80"`
}

// Register onboards a donor account and hands back a signed access token.
func Register(svc identity.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), identity.RegisterInput{
			Email:       body.Email,
			DisplayName: body.DisplayName,
			AvatarID:    body.AvatarID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				err = pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			UserID: user.ID,
			Role:   enums.MemberRoleUser,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		w.Header().Set("X-FL-Token", token)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"user": map[string]any{
				"id":           user.ID,
				"email":        user.Email,
				"display_name": user.DisplayName,
			},
		})
	}
}

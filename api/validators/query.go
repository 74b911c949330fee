package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryCategory reads an optional campaign category filter.
func ParseQueryCategory(r *http.Request, key string) (*enums.CampaignCategory, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	category, err := enums.ParseCampaignCategory(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"field": key})
	}
	return &category, nil
}

// ParseQueryCampaignStatus reads an optional campaign status filter.
func ParseQueryCampaignStatus(r *http.Request, key string) (*enums.CampaignStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseCampaignStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").WithDetails(map[string]any{"field": key})
	}
	return &status, nil
}

package enums

import "fmt"

// CampaignCategory is the browsing category a campaign is listed under.
type CampaignCategory string

const (
	CampaignCategoryCommunity  CampaignCategory = "community"
	CampaignCategoryArts       CampaignCategory = "arts"
	CampaignCategoryAnimals    CampaignCategory = "animals"
	CampaignCategoryTechnology CampaignCategory = "technology"
	CampaignCategoryFilm       CampaignCategory = "film"
	CampaignCategoryEducation  CampaignCategory = "education"
)

var validCampaignCategories = []CampaignCategory{
	CampaignCategoryCommunity,
	CampaignCategoryArts,
	CampaignCategoryAnimals,
	CampaignCategoryTechnology,
	CampaignCategoryFilm,
	CampaignCategoryEducation,
}

// String implements fmt.Stringer.
func (c CampaignCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CampaignCategory.
func (c CampaignCategory) IsValid() bool {
	for _, candidate := range validCampaignCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCampaignCategory converts the raw string to a CampaignCategory.
func ParseCampaignCategory(value string) (CampaignCategory, error) {
	for _, candidate := range validCampaignCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign category %q", value)
}

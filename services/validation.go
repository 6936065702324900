package services

import (
	"strings"

	"trendmoni/models"
)

// ValidateProfile checks the fields a profile cannot be saved without.
func ValidateProfile(companyName string, niches []string) error {
	var problems []string
	if strings.TrimSpace(companyName) == "" {
		problems = append(problems, "company name is required")
	}
	if len(niches) == 0 {
		problems = append(problems, "select at least one niche")
	}
	if len(problems) > 0 {
		return &models.InputValidationError{Field: "profile", Problems: problems}
	}
	return nil
}

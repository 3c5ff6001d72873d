package dto

import (
	"time"

	"github.com/spec-kit/dietcare-service/internal/domain"
)

// CreateProfileRequest payload. UserID is honored only for callers whose
// role allows acting on behalf of another user.
type CreateProfileRequest struct {
	UserID   string  `json:"userId,omitempty"`
	Age      int     `json:"age"`
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
	DietGoal string  `json:"dietGoal"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Age      int     `json:"age"`
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
	DietGoal string  `json:"dietGoal"`
}

// RecordComplianceRequest payload.
type RecordComplianceRequest struct {
	Date          string `json:"date"`
	MealsFollowed int    `json:"mealsFollowed"`
	MealsTotal    int    `json:"mealsTotal"`
	Notes         string `json:"notes,omitempty"`
}

// ProfileResponse view of a patient profile.
type ProfileResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	Age      int     `json:"age"`
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
	DietGoal string  `json:"dietGoal"`
}

// ComplianceResponse view of a compliance record.
type ComplianceResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Date          time.Time `json:"date"`
	MealsFollowed int       `json:"mealsFollowed"`
	MealsTotal    int       `json:"mealsTotal"`
	Notes         string    `json:"notes,omitempty"`
}

// NewProfileResponse maps the domain profile.
func NewProfileResponse(p *domain.PatientProfile) ProfileResponse {
	return ProfileResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Age:      p.Age,
		HeightCm: p.HeightCm,
		WeightKg: p.WeightKg,
		DietGoal: p.DietGoal,
	}
}

// NewComplianceResponse maps the domain record.
func NewComplianceResponse(r *domain.ComplianceRecord) ComplianceResponse {
	return ComplianceResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		Date:          r.Date,
		MealsFollowed: r.MealsFollowed,
		MealsTotal:    r.MealsTotal,
		Notes:         r.Notes,
	}
}

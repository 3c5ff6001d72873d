package domain

import "time"

// PatientProfile is the per-user diet profile. At most one profile exists
// per user id.
type PatientProfile struct {
	ID        string
	UserID    string
	Age       int
	HeightCm  float64
	WeightKg  float64
	DietGoal  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComplianceRecord captures one day's diet-plan adherence for a patient.
type ComplianceRecord struct {
	ID            string
	UserID        string
	Date          time.Time
	MealsFollowed int
	MealsTotal    int
	Notes         string
	CreatedAt     time.Time
}

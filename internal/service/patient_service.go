package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/domain"
	"github.com/spec-kit/dietcare-service/internal/repository"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"
)

// CreateProfileInput carries new-profile fields. UserID may name another
// user only when the caller's role allows it.
type CreateProfileInput struct {
	UserID   string
	Age      int
	HeightCm float64
	WeightKg float64
	DietGoal string
}

// UpdateProfileInput carries profile updates.
type UpdateProfileInput struct {
	Age      int
	HeightCm float64
	WeightKg float64
	DietGoal string
}

// RecordComplianceInput carries one compliance entry.
type RecordComplianceInput struct {
	Date          time.Time
	MealsFollowed int
	MealsTotal    int
	Notes         string
}

// PatientService enforces the resource-level authorization policy over
// patient profiles and compliance records: patients may only touch rows
// they own, admins and practitioners may touch any row. Ownership is
// always decided against the durable record's user id and the verified
// token identity, never against client-supplied user projections.
type PatientService struct {
	profiles   repository.ProfileRepository
	compliance repository.ComplianceRepository
}

// NewPatientService builds the service.
func NewPatientService(profiles repository.ProfileRepository, compliance repository.ComplianceRepository) *PatientService {
	return &PatientService{profiles: profiles, compliance: compliance}
}

// CreateProfile creates a profile for the caller, or on behalf of another
// user when the caller's role allows it. A second profile for the same
// user id is a conflict.
func (s *PatientService) CreateProfile(ctx context.Context, caller *auth.Identity, in CreateProfileInput) (*domain.PatientProfile, error) {
	targetID := in.UserID
	if targetID == "" {
		targetID = caller.ID
	}
	if err := s.authorize(caller, targetID); err != nil {
		return nil, err
	}

	if _, err := s.profiles.GetByUserID(ctx, targetID); err == nil {
		return nil, apperrors.NewConflict("profile already exists for this user", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	profile := &domain.PatientProfile{
		UserID:   targetID,
		Age:      in.Age,
		HeightCm: in.HeightCm,
		WeightKg: in.WeightKg,
		DietGoal: in.DietGoal,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.NewConflict("profile already exists for this user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// GetProfile returns the profile owned by userID.
func (s *PatientService) GetProfile(ctx context.Context, caller *auth.Identity, userID string) (*domain.PatientProfile, error) {
	if err := s.authorize(caller, userID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// UpdateProfile updates the profile owned by userID.
func (s *PatientService) UpdateProfile(ctx context.Context, caller *auth.Identity, userID string, in UpdateProfileInput) (*domain.PatientProfile, error) {
	if err := s.authorize(caller, userID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile")
		}
		return nil, apperrors.NewInternalError(err)
	}

	profile.Age = in.Age
	profile.HeightCm = in.HeightCm
	profile.WeightKg = in.WeightKg
	profile.DietGoal = in.DietGoal
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// RecordCompliance stores one compliance entry for userID.
func (s *PatientService) RecordCompliance(ctx context.Context, caller *auth.Identity, userID string, in RecordComplianceInput) (*domain.ComplianceRecord, error) {
	if err := s.authorize(caller, userID); err != nil {
		return nil, err
	}

	record := &domain.ComplianceRecord{
		UserID:        userID,
		Date:          in.Date,
		MealsFollowed: in.MealsFollowed,
		MealsTotal:    in.MealsTotal,
		Notes:         in.Notes,
	}
	if err := s.compliance.Create(ctx, record); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return record, nil
}

// ListCompliance returns recent compliance entries for userID.
func (s *PatientService) ListCompliance(ctx context.Context, caller *auth.Identity, userID string, limit int) ([]domain.ComplianceRecord, error) {
	if err := s.authorize(caller, userID); err != nil {
		return nil, err
	}

	records, err := s.compliance.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return records, nil
}

func (s *PatientService) authorize(caller *auth.Identity, ownerID string) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if auth.IsElevated(caller.Role) {
		return nil
	}
	if caller.ID != ownerID {
		return apperrors.NewAccessDenied("you may only access your own records")
	}
	return nil
}

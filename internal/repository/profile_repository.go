package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dietcare-service/internal/domain"
)

// ProfileRepository defines persistence access for patient profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.PatientProfile) error
	Update(ctx context.Context, profile *domain.PatientProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.PatientProfile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.PatientProfile) error {
	const query = `
        INSERT INTO patient_profiles (user_id, age, height_cm, weight_kg, diet_goal)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Age,
		profile.HeightCm,
		profile.WeightKg,
		profile.DietGoal,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.PatientProfile) error {
	const query = `
        UPDATE patient_profiles SET age=$1, height_cm=$2, weight_kg=$3, diet_goal=$4, updated_at=NOW()
        WHERE user_id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		profile.Age,
		profile.HeightCm,
		profile.WeightKg,
		profile.DietGoal,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.PatientProfile, error) {
	const query = `
        SELECT id, user_id, age, height_cm, weight_kg, diet_goal, created_at, updated_at
        FROM patient_profiles WHERE user_id=$1`

	var profile domain.PatientProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.HeightCm,
		&profile.WeightKg,
		&profile.DietGoal,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

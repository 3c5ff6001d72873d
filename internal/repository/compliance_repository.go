package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dietcare-service/internal/domain"
)

// ComplianceRepository defines persistence access for compliance records.
type ComplianceRepository interface {
	Create(ctx context.Context, record *domain.ComplianceRecord) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.ComplianceRecord, error)
}

type complianceRepository struct {
	pool *pgxpool.Pool
}

// NewComplianceRepository returns a Postgres-backed implementation.
func NewComplianceRepository(pool *pgxpool.Pool) ComplianceRepository {
	return &complianceRepository{pool: pool}
}

func (r *complianceRepository) Create(ctx context.Context, record *domain.ComplianceRecord) error {
	const query = `
        INSERT INTO compliance_records (user_id, record_date, meals_followed, meals_total, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		record.UserID,
		record.Date,
		record.MealsFollowed,
		record.MealsTotal,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *complianceRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.ComplianceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, user_id, record_date, meals_followed, meals_total, notes, created_at
        FROM compliance_records WHERE user_id=$1
        ORDER BY record_date DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ComplianceRecord
	for rows.Next() {
		var record domain.ComplianceRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Date,
			&record.MealsFollowed,
			&record.MealsTotal,
			&record.Notes,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

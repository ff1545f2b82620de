package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bloodlink/internal/domain"
)

// DonorRepository is the donor directory. ListAvailable is the read the
// matching engine depends on; everything else serves the donor CRUD surface.
type DonorRepository interface {
	Create(ctx context.Context, donor *domain.Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Donor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Donor, error)
	ListAvailable(ctx context.Context) ([]domain.Donor, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Donor, int64, error)
	ListByBloodType(ctx context.Context, bt domain.BloodType) ([]domain.Donor, error)
	Update(ctx context.Context, donor *domain.Donor) error
	CountAll(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
	CountByBloodType(ctx context.Context) (map[domain.BloodType]int64, error)
}

type donorRepository struct {
	db *sqlx.DB
}

func NewDonorRepository(db *sqlx.DB) DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) Create(ctx context.Context, donor *domain.Donor) error {
	query := `
		INSERT INTO donors (id, user_id, blood_type, is_available, contact_number, location, last_donation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		donor.ID, donor.UserID, donor.BloodType, donor.IsAvailable,
		donor.ContactNumber, donor.Location, donor.LastDonationDate,
	).Scan(&donor.CreatedAt, &donor.UpdatedAt)
}

func (r *donorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Donor, error) {
	var donor domain.Donor
	query := `SELECT * FROM donors WHERE id = $1`
	err := r.db.GetContext(ctx, &donor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Donor, error) {
	var donor domain.Donor
	query := `SELECT * FROM donors WHERE user_id = $1`
	err := r.db.GetContext(ctx, &donor, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) ListAvailable(ctx context.Context) ([]domain.Donor, error) {
	var donors []domain.Donor
	query := `SELECT * FROM donors WHERE is_available = true`
	err := r.db.SelectContext(ctx, &donors, query)
	return donors, err
}

func (r *donorRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Donor, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM donors`); err != nil {
		return nil, 0, err
	}

	var donors []domain.Donor
	query := `
		SELECT * FROM donors
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &donors, query, params.PageSize, params.Offset())
	return donors, total, err
}

func (r *donorRepository) ListByBloodType(ctx context.Context, bt domain.BloodType) ([]domain.Donor, error) {
	var donors []domain.Donor
	query := `SELECT * FROM donors WHERE blood_type = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &donors, query, bt)
	return donors, err
}

func (r *donorRepository) Update(ctx context.Context, donor *domain.Donor) error {
	query := `
		UPDATE donors
		SET is_available = $2, contact_number = $3, location = $4, last_donation_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		donor.ID, donor.IsAvailable, donor.ContactNumber, donor.Location, donor.LastDonationDate,
	).Scan(&donor.UpdatedAt)
}

func (r *donorRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM donors`)
	return count, err
}

func (r *donorRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM donors WHERE is_available = true`)
	return count, err
}

func (r *donorRepository) CountByBloodType(ctx context.Context) (map[domain.BloodType]int64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT blood_type, COUNT(*) FROM donors GROUP BY blood_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BloodType]int64)
	for rows.Next() {
		var bt domain.BloodType
		var count int64
		if err := rows.Scan(&bt, &count); err != nil {
			return nil, err
		}
		counts[bt] = count
	}
	return counts, rows.Err()
}

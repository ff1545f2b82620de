package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bloodlink/internal/domain"
)

// BloodRequestRepository is the request store. ListPendingOrActive feeds the
// watcher's reconciliation scan.
type BloodRequestRepository interface {
	Create(ctx context.Context, req *domain.BloodRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.BloodRequest, int64, error)
	ListPendingOrActive(ctx context.Context) ([]domain.BloodRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error
	CountOpen(ctx context.Context) (int64, error)
	CountOpenUrgent(ctx context.Context) (int64, error)
}

type bloodRequestRepository struct {
	db *sqlx.DB
}

func NewBloodRequestRepository(db *sqlx.DB) BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

func (r *bloodRequestRepository) Create(ctx context.Context, req *domain.BloodRequest) error {
	query := `
		INSERT INTO blood_requests (id, requester_id, patient_name, blood_type, units, hospital,
			location, required_date, contact_name, contact_phone, urgency_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		req.ID, req.RequesterID, req.PatientName, req.BloodType, req.Units, req.Hospital,
		req.Location, req.RequiredDate, req.ContactName, req.ContactPhone, req.UrgencyLevel, req.Status,
	).Scan(&req.CreatedAt)
}

func (r *bloodRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error) {
	var req domain.BloodRequest
	query := `SELECT * FROM blood_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *bloodRequestRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error) {
	var requests []domain.BloodRequest
	query := `SELECT * FROM blood_requests WHERE requester_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, requesterID)
	return requests, err
}

func (r *bloodRequestRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.BloodRequest, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM blood_requests`); err != nil {
		return nil, 0, err
	}

	var requests []domain.BloodRequest
	query := `
		SELECT * FROM blood_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &requests, query, params.PageSize, params.Offset())
	return requests, total, err
}

func (r *bloodRequestRepository) ListPendingOrActive(ctx context.Context) ([]domain.BloodRequest, error) {
	var requests []domain.BloodRequest
	query := `SELECT * FROM blood_requests WHERE status IN ('pending', 'active') ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query)
	return requests, err
}

func (r *bloodRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE blood_requests SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *bloodRequestRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM blood_requests WHERE status IN ('pending', 'active')`)
	return count, err
}

func (r *bloodRequestRepository) CountOpenUrgent(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM blood_requests WHERE status IN ('pending', 'active') AND urgency_level IN ('critical', 'urgent')`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

const claimColumns = `id, booking_id, claimant_id, description, estimated_cost, evidence, status, resolution, created_on, updated_on`

func (r *claimRepository) Create(ctx context.Context, claim *domain.DamageClaim) error {
	query := `INSERT INTO damage_claims (booking_id, claimant_id, description, estimated_cost, evidence, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		claim.BookingID, claim.ClaimantID, claim.Description, claim.EstimatedCost,
		pq.Array(claim.Evidence), claim.Status, now,
	).Scan(&claim.ID)
	if err != nil {
		return domain.Collaboratorf("insert damage claim: %v", err)
	}
	claim.CreatedOn = now
	claim.UpdatedOn = now
	return nil
}

func (r *claimRepository) GetByID(ctx context.Context, id int32) (*domain.DamageClaim, error) {
	claim := &domain.DamageClaim{}
	var evidence pq.StringArray
	var resolution sql.NullString

	query := `SELECT ` + claimColumns + ` FROM damage_claims WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&claim.ID, &claim.BookingID, &claim.ClaimantID, &claim.Description,
		&claim.EstimatedCost, &evidence, &claim.Status, &resolution,
		&claim.CreatedOn, &claim.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claim %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get claim %d: %v", id, err)
	}

	claim.Evidence = evidence
	if resolution.Valid {
		res := domain.ClaimResolution(resolution.String)
		claim.Resolution = &res
	}
	return claim, nil
}

func (r *claimRepository) Update(ctx context.Context, claim *domain.DamageClaim) error {
	query := `UPDATE damage_claims SET description=$1, estimated_cost=$2, evidence=$3, status=$4, resolution=$5, updated_on=$6 WHERE id=$7`
	var resolution *string
	if claim.Resolution != nil {
		s := string(*claim.Resolution)
		resolution = &s
	}
	_, err := r.db.ExecContext(ctx, query,
		claim.Description, claim.EstimatedCost, pq.Array(claim.Evidence),
		claim.Status, resolution, time.Now(), claim.ID,
	)
	if err != nil {
		return domain.Collaboratorf("update claim %d: %v", claim.ID, err)
	}
	return nil
}

func (r *claimRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.DamageClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM damage_claims WHERE booking_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, domain.Collaboratorf("list claims for booking %d: %v", bookingID, err)
	}
	defer rows.Close()

	var claims []domain.DamageClaim
	for rows.Next() {
		var claim domain.DamageClaim
		var evidence pq.StringArray
		var resolution sql.NullString
		if err := rows.Scan(
			&claim.ID, &claim.BookingID, &claim.ClaimantID, &claim.Description,
			&claim.EstimatedCost, &evidence, &claim.Status, &resolution,
			&claim.CreatedOn, &claim.UpdatedOn,
		); err != nil {
			return nil, domain.Collaboratorf("scan claim: %v", err)
		}
		claim.Evidence = evidence
		if resolution.Valid {
			res := domain.ClaimResolution(resolution.String)
			claim.Resolution = &res
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

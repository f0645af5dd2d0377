package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) repository.VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) GetProfile(ctx context.Context, userID int32) (*domain.VerificationProfile, error) {
	p := &domain.VerificationProfile{}
	query := `SELECT user_id, identity_verified, phone_verified, email_verified, address_verified, verified_at
	          FROM verification_profiles WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.IdentityVerified, &p.PhoneVerified, &p.EmailVerified,
		&p.AddressVerified, &p.VerifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification profile for user %d: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get verification profile for user %d: %v", userID, err)
	}
	return p, nil
}

func (r *verificationRepository) UpsertProfile(ctx context.Context, profile *domain.VerificationProfile) error {
	query := `INSERT INTO verification_profiles (user_id, identity_verified, phone_verified, email_verified, address_verified, verified_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id)
	          DO UPDATE SET identity_verified = EXCLUDED.identity_verified,
	                        phone_verified = EXCLUDED.phone_verified,
	                        email_verified = EXCLUDED.email_verified,
	                        address_verified = EXCLUDED.address_verified,
	                        verified_at = EXCLUDED.verified_at`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.IdentityVerified, profile.PhoneVerified,
		profile.EmailVerified, profile.AddressVerified, profile.VerifiedAt,
	)
	if err != nil {
		return domain.Collaboratorf("upsert verification profile for user %d: %v", profile.UserID, err)
	}
	return nil
}

func (r *verificationRepository) GetReviewStats(ctx context.Context, userID int32) (domain.ReviewStats, error) {
	var stats domain.ReviewStats
	var avg sql.NullFloat64
	query := `SELECT AVG(rating), COUNT(*) FROM reviews WHERE reviewee_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&avg, &stats.TotalReviews); err != nil {
		return domain.ReviewStats{}, domain.Collaboratorf("review stats for user %d: %v", userID, err)
	}
	if avg.Valid {
		stats.AverageRating = avg.Float64
	}
	return stats, nil
}

func (r *verificationRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (booking_id, reviewer_id, reviewee_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		review.BookingID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment, now,
	).Scan(&review.ID)
	if err != nil {
		return domain.Collaboratorf("insert review: %v", err)
	}
	review.CreatedOn = now
	return nil
}

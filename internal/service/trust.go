package service

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/trust"
)

type trustService struct {
	verificationRepo repository.VerificationRepository
	bookingRepo      repository.BookingRepository
	userRepo         repository.UserRepository
}

func NewTrustService(
	verificationRepo repository.VerificationRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
) TrustService {
	return &trustService{
		verificationRepo: verificationRepo,
		bookingRepo:      bookingRepo,
		userRepo:         userRepo,
	}
}

// GetScore assembles the scoring input from three sources with different
// failure modes. The verification profile is the identity anchor and its
// absence fails the call; review and booking history merely shrink toward
// zero when unavailable, which matches how a genuinely new user scores.
func (s *trustService) GetScore(ctx context.Context, userID int32) (*trust.Result, error) {
	profile, err := s.verificationRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := trust.Input{
		IdentityVerified: profile.IdentityVerified,
		PhoneVerified:    profile.PhoneVerified,
		EmailVerified:    profile.EmailVerified,
	}

	if stats, err := s.verificationRepo.GetReviewStats(ctx, userID); err != nil {
		logger.WarnContext(ctx, "Review stats unavailable, scoring without them",
			"user_id", userID, "error", err)
	} else {
		in.AverageRating = stats.AverageRating
		in.TotalReviews = stats.TotalReviews
	}

	if completed, err := s.bookingRepo.CountCompletedForUser(ctx, userID); err != nil {
		logger.WarnContext(ctx, "Completed booking count unavailable, scoring without it",
			"user_id", userID, "error", err)
	} else {
		in.CompletedBookings = completed
	}

	if hours, err := s.bookingRepo.AverageOwnerResponseHours(ctx, userID); err != nil {
		logger.WarnContext(ctx, "Response time unavailable, scoring without it",
			"user_id", userID, "error", err)
	} else {
		in.AverageResponseTimeHours = hours
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		in.AccountAgeDays = int(time.Since(user.CreatedOn).Hours() / 24)
	}

	result := trust.Score(in)
	return &result, nil
}

func (s *trustService) SubmitReview(ctx context.Context, reviewerID int32, review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Validationf("rating must be within 1..5, got %d", review.Rating)
	}
	review.ReviewerID = reviewerID

	b, err := s.bookingRepo.GetByID(ctx, review.BookingID)
	if err != nil {
		return err
	}
	if b.RenterID != reviewerID && b.OwnerID != reviewerID {
		return domain.ErrUnauthorized
	}
	if b.Status != domain.BookingStatusCompleted {
		return domain.Conflictf("reviews require a completed booking, booking %d is %q", b.ID, b.Status)
	}

	// The counterparty is implied by the booking, never caller-supplied.
	if reviewerID == b.RenterID {
		review.RevieweeID = b.OwnerID
	} else {
		review.RevieweeID = b.RenterID
	}

	return s.verificationRepo.CreateReview(ctx, review)
}

func (s *trustService) SetVerification(ctx context.Context, profile *domain.VerificationProfile) error {
	if profile.UserID == 0 {
		return domain.Validationf("user id is required")
	}
	now := time.Now()
	profile.VerifiedAt = &now
	return s.verificationRepo.UpsertProfile(ctx, profile)
}

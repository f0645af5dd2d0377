package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository"
)

type claimService struct {
	claimRepo      repository.ClaimRepository
	bookingRepo    repository.BookingRepository
	inspectionRepo repository.InspectionRepository
	paymentRepo    repository.PaymentRepository
	equipmentRepo  repository.EquipmentRepository
	userRepo       repository.UserRepository
	gateway        payment.Gateway
	emailSvc       EmailService
	notifier       *events.Notifier
	claimWindow    time.Duration
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	bookingRepo repository.BookingRepository,
	inspectionRepo repository.InspectionRepository,
	paymentRepo repository.PaymentRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	emailSvc EmailService,
	notifier *events.Notifier,
	claimWindow time.Duration,
) ClaimService {
	return &claimService{
		claimRepo:      claimRepo,
		bookingRepo:    bookingRepo,
		inspectionRepo: inspectionRepo,
		paymentRepo:    paymentRepo,
		equipmentRepo:  equipmentRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		emailSvc:       emailSvc,
		notifier:       notifier,
		claimWindow:    claimWindow,
	}
}

func (s *claimService) FileClaim(ctx context.Context, ownerID, bookingID int32, description string, estimatedCost decimal.Decimal, evidence []string) (*domain.DamageClaim, error) {
	if description == "" {
		return nil, domain.Validationf("claim description is required")
	}
	if estimatedCost.Sign() <= 0 {
		return nil, domain.Validationf("estimated cost must be positive, got %s", estimatedCost)
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if b.Status != domain.BookingStatusCompleted {
		return nil, domain.Conflictf("claims require a completed booking, booking %d is %q", bookingID, b.Status)
	}

	ret, err := s.inspectionRepo.GetByBookingAndType(ctx, bookingID, domain.InspectionTypeReturn)
	if err != nil {
		return nil, domain.Conflictf("booking %d has no return inspection, nothing to claim against", bookingID)
	}
	if time.Since(ret.CreatedOn) > s.claimWindow {
		return nil, domain.Conflictf("claim window for booking %d closed %s after return",
			bookingID, s.claimWindow)
	}

	// Disputing the escrow first means the deposit release job can no
	// longer race past us: whoever wins the compare-and-swap decides.
	pay, err := s.paymentRepo.GetSucceededByBooking(ctx, bookingID)
	if err != nil {
		return nil, domain.Conflictf("booking %d has no captured payment to claim against", bookingID)
	}
	if err := s.paymentRepo.UpdateEscrowStatus(ctx, pay.ID, domain.EscrowStatusHeld, domain.EscrowStatusDisputed); err != nil {
		return nil, err
	}

	claim := &domain.DamageClaim{
		BookingID:     bookingID,
		ClaimantID:    ownerID,
		Description:   description,
		EstimatedCost: estimatedCost,
		Evidence:      evidence,
		Status:        domain.ClaimStatusPending,
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		// Put the escrow back so the deposit is not stranded in disputed.
		if rbErr := s.paymentRepo.UpdateEscrowStatus(ctx, pay.ID, domain.EscrowStatusDisputed, domain.EscrowStatusHeld); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to revert escrow after claim insert failure",
				"payment_id", pay.ID, "booking_id", bookingID, "error", rbErr)
		}
		return nil, err
	}
	metrics.ClaimsFiled.Inc()

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	if eq != nil && renter != nil {
		_ = s.emailSvc.SendClaimFiledNotification(ctx, renter.Email, eq.Name, estimatedCost)
	}

	s.notifier.Publish(ctx, events.BookingEvent{
		Type:      events.EventClaimFiled,
		BookingID: b.ID,
		RenterID:  b.RenterID,
		OwnerID:   b.OwnerID,
		Status:    string(b.Status),
	})

	return claim, nil
}

func (s *claimService) ResolveClaim(ctx context.Context, claimID int32, resolution domain.ClaimResolution) (*domain.DamageClaim, error) {
	if resolution != domain.ClaimResolutionUpheld && resolution != domain.ClaimResolutionDismissed {
		return nil, domain.Validationf("unknown claim resolution %q", resolution)
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status == domain.ClaimStatusResolved {
		return nil, domain.Conflictf("claim %d is already resolved", claimID)
	}

	pay, err := s.paymentRepo.GetSucceededByBooking(ctx, claim.BookingID)
	if err != nil {
		return nil, fmt.Errorf("payment for booking %d: %w", claim.BookingID, err)
	}

	// Upheld sends the deposit to the owner (escrow released), dismissed
	// returns it to the renter (escrow refunded). The swap commits before
	// any money moves; a dismissed claim then refunds the deposit through
	// the gateway, rolling the escrow back if the refund is rejected.
	target := domain.EscrowStatusReleased
	if resolution == domain.ClaimResolutionDismissed {
		target = domain.EscrowStatusRefunded
	}
	if err := s.paymentRepo.UpdateEscrowStatus(ctx, pay.ID, domain.EscrowStatusDisputed, target); err != nil {
		return nil, err
	}

	if resolution == domain.ClaimResolutionDismissed && pay.DepositAmount.Sign() > 0 {
		if err := s.gateway.Refund(ctx, pay.IntentID, pay.DepositAmount,
			fmt.Sprintf("claim %d dismissed, deposit returned", claimID)); err != nil {
			if rbErr := s.paymentRepo.UpdateEscrowStatus(ctx, pay.ID, domain.EscrowStatusRefunded, domain.EscrowStatusDisputed); rbErr != nil {
				logger.ErrorContext(ctx, "Failed to revert escrow after dismissal refund failure",
					"payment_id", pay.ID, "claim_id", claimID, "error", rbErr)
			}
			return nil, domain.Collaboratorf("refunding deposit for dismissed claim %d: %v", claimID, err)
		}
		if b, err := s.bookingRepo.GetByID(ctx, claim.BookingID); err == nil {
			s.notifier.Publish(ctx, events.BookingEvent{
				Type:      events.EventPaymentRefunded,
				BookingID: b.ID,
				RenterID:  b.RenterID,
				OwnerID:   b.OwnerID,
				Status:    string(b.Status),
			})
		}
	}

	claim.Status = domain.ClaimStatusResolved
	claim.Resolution = &resolution
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimService) ListClaims(ctx context.Context, userID, bookingID int32) ([]domain.DamageClaim, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return s.claimRepo.ListByBooking(ctx, bookingID)
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/retry"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	gateway     payment.Gateway
	noteRepo    repository.NotificationRepository
	notifier    *events.Notifier

	pollAttempts int
	pollInterval time.Duration

	// inFlight guards intent creation per booking. An entry is reserved
	// under the mutex before the gateway is called, so a second submission
	// arriving during the in-flight window is rejected instead of opening a
	// second intent. A nil value marks an attempt still in flight; a settled
	// attempt stores its intent for double-submit reuse. The entry clears on
	// error (allowing retry) or on confirmed success.
	mu       sync.Mutex
	inFlight map[int32]*payment.Intent
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gateway payment.Gateway,
	noteRepo repository.NotificationRepository,
	notifier *events.Notifier,
	pollAttempts int,
	pollInterval time.Duration,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		gateway:      gateway,
		noteRepo:     noteRepo,
		notifier:     notifier,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
		inFlight:     make(map[int32]*payment.Intent),
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, renterID, bookingID int32) (*payment.Intent, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != renterID {
		return nil, domain.ErrUnauthorized
	}
	if b.Status != domain.BookingStatusApproved {
		return nil, domain.Conflictf("booking %d is %q, payment requires an approved booking", bookingID, b.Status)
	}

	// One succeeded payment per booking is final; don't open another intent.
	if _, err := s.paymentRepo.GetSucceededByBooking(ctx, bookingID); err == nil {
		return nil, domain.Conflictf("booking %d is already paid", bookingID)
	}

	// Reserve the guard entry before any collaborator is touched: the
	// window between "checked" and "created" is exactly what it protects.
	s.mu.Lock()
	if intent, ok := s.inFlight[bookingID]; ok {
		s.mu.Unlock()
		if intent == nil {
			return nil, domain.Conflictf("payment initialization for booking %d is already in flight", bookingID)
		}
		return intent, nil
	}
	s.inFlight[bookingID] = nil
	s.mu.Unlock()

	intent, err := s.gateway.CreateIntent(ctx, bookingID, b.TotalAmount)
	if err != nil {
		s.settle(bookingID)
		return nil, domain.Collaboratorf("creating payment intent for booking %d: %v", bookingID, err)
	}

	p := &domain.Payment{
		BookingID:     bookingID,
		IntentID:      intent.IntentID,
		Amount:        b.TotalAmount,
		DepositAmount: b.DepositAmount,
		PaymentStatus: domain.PaymentStatusPending,
		EscrowStatus:  domain.EscrowStatusHeld,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		s.settle(bookingID)
		return nil, err
	}

	s.mu.Lock()
	s.inFlight[bookingID] = intent
	s.mu.Unlock()

	return intent, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}

	defer s.settle(p.BookingID)

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, p.ID, domain.PaymentStatusPending, domain.PaymentStatusProcessing); err != nil {
		return nil, err
	}

	if err := s.gateway.Confirm(ctx, intentID); err != nil {
		_ = s.paymentRepo.UpdatePaymentStatus(ctx, p.ID, domain.PaymentStatusProcessing, domain.PaymentStatusFailed)
		return nil, domain.Collaboratorf("confirming intent %s: %v", intentID, err)
	}

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, p.ID, domain.PaymentStatusProcessing, domain.PaymentStatusSucceeded); err != nil {
		return nil, err
	}

	// The succeeded row may lag behind replicas; poll a bounded number of
	// times before handing back, and proceed with a warning if it never
	// shows. Reconciliation reads the earliest succeeded row later anyway.
	outcome, pollErr := retry.Poll(ctx, s.pollAttempts, s.pollInterval, func(ctx context.Context) (bool, error) {
		confirmed, err := s.paymentRepo.GetSucceededByBooking(ctx, p.BookingID)
		if err != nil {
			return false, nil // not visible yet, keep polling
		}
		return confirmed.IntentID == intentID || confirmed.PaymentStatus == domain.PaymentStatusSucceeded, nil
	})
	metrics.PaymentConfirmations.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case retry.Failed:
		return nil, domain.Collaboratorf("payment confirmation for intent %s: %v", intentID, pollErr)
	case retry.NotYetVisible:
		logger.WarnContext(ctx, "Payment confirmed but not yet visible in store",
			"intent_id", intentID, "booking_id", p.BookingID,
			"attempts", s.pollAttempts)
	}

	p.PaymentStatus = domain.PaymentStatusSucceeded

	if b, err := s.bookingRepo.GetByID(ctx, p.BookingID); err == nil {
		s.notifyBoth(ctx, b, events.EventPaymentCaptured, "Payment Received",
			fmt.Sprintf("Payment of %s for booking %d captured and held in escrow", p.Amount, b.ID))
	}

	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, userID, paymentID int32) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}

func (s *paymentService) ReleaseDeposit(ctx context.Context, paymentID int32) error {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	// Win the compare-and-swap before any money moves. Release is
	// single-shot: a concurrent claim that already moved the escrow to
	// disputed (or an earlier release) wins the swap and no refund is sent.
	if err := s.paymentRepo.UpdateEscrowStatus(ctx, paymentID, domain.EscrowStatusHeld, domain.EscrowStatusReleased); err != nil {
		return err
	}

	if p.DepositAmount.Sign() > 0 {
		if err := s.gateway.Refund(ctx, p.IntentID, p.DepositAmount, "deposit release"); err != nil {
			// Put the escrow back so the deposit is not stranded as
			// released with the money still held.
			if rbErr := s.paymentRepo.UpdateEscrowStatus(ctx, paymentID, domain.EscrowStatusReleased, domain.EscrowStatusHeld); rbErr != nil {
				logger.ErrorContext(ctx, "Failed to revert escrow after deposit refund failure",
					"payment_id", paymentID, "booking_id", p.BookingID, "error", rbErr)
			}
			return domain.Collaboratorf("releasing deposit for payment %d: %v", paymentID, err)
		}
	}
	metrics.DepositsReleased.Inc()

	if b, err := s.bookingRepo.GetByID(ctx, p.BookingID); err == nil {
		s.notifyBoth(ctx, b, events.EventDepositReleased, "Deposit Released",
			fmt.Sprintf("Deposit of %s for booking %d returned to the renter", p.DepositAmount, b.ID))
	}

	return nil
}

func (s *paymentService) settle(bookingID int32) {
	s.mu.Lock()
	delete(s.inFlight, bookingID)
	s.mu.Unlock()
}

// notifyBoth stores in-app notifications for both parties and publishes the
// realtime event. Best-effort; a delivery failure never unwinds the money.
func (s *paymentService) notifyBoth(ctx context.Context, b *domain.Booking, eventType, title, message string) {
	for _, userID := range []int32{b.RenterID, b.OwnerID} {
		note := &domain.Notification{
			UserID:  userID,
			Title:   title,
			Message: message,
			Attributes: map[string]string{
				"type":       eventType,
				"booking_id": fmt.Sprintf("%d", b.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.WarnContext(ctx, "Failed to store notification",
				"user_id", userID, "booking_id", b.ID, "error", err)
		}
	}

	s.notifier.Publish(ctx, events.BookingEvent{
		Type:      eventType,
		BookingID: b.ID,
		RenterID:  b.RenterID,
		OwnerID:   b.OwnerID,
		Status:    string(b.Status),
	})
}

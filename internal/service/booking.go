package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gearshare-backend/internal/availability"
	"gearshare-backend/internal/booking"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/inspection"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/repository"
)

// availabilityStore adapts the booking and equipment repositories to the
// narrow store the conflict checker reads from.
type availabilityStore struct {
	bookings  repository.BookingRepository
	equipment repository.EquipmentRepository
}

func (s *availabilityStore) FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error) {
	return s.bookings.FindOverlapping(ctx, equipmentID, start, end, excludeBookingID)
}

func (s *availabilityStore) FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error) {
	return s.equipment.FindBlockedDates(ctx, equipmentID, start, end)
}

type bookingService struct {
	bookingRepo    repository.BookingRepository
	equipmentRepo  repository.EquipmentRepository
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
	inspectionRepo repository.InspectionRepository
	noteRepo       repository.NotificationRepository
	gateway        payment.Gateway
	emailSvc       EmailService
	notifier       *events.Notifier
	checker        *availability.Checker
	claimWindow    time.Duration
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	inspectionRepo repository.InspectionRepository,
	noteRepo repository.NotificationRepository,
	gateway payment.Gateway,
	emailSvc EmailService,
	notifier *events.Notifier,
	claimWindow time.Duration,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		equipmentRepo:  equipmentRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		inspectionRepo: inspectionRepo,
		noteRepo:       noteRepo,
		gateway:        gateway,
		emailSvc:       emailSvc,
		notifier:       notifier,
		checker: availability.NewChecker(&availabilityStore{
			bookings:  bookingRepo,
			equipment: equipmentRepo,
		}),
		claimWindow: claimWindow,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]availability.Conflict, error) {
	if !end.After(start) {
		return nil, domain.Validationf("end date %s must be after start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	conflicts := s.checker.CheckConflicts(ctx, equipmentID, start, end, excludeBookingID)
	for _, c := range conflicts {
		metrics.AvailabilityConflicts.WithLabelValues(string(c.Type)).Inc()
	}
	return conflicts, nil
}

func (s *bookingService) Quote(ctx context.Context, equipmentID int32, start, end time.Time, insurance domain.InsuranceType) (*pricing.Calculation, []availability.Conflict, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, nil, err
	}

	conflicts, err := s.CheckAvailability(ctx, equipmentID, start, end, nil)
	if err != nil {
		return nil, nil, err
	}

	customRates, err := s.customRates(ctx, equipmentID, start, end)
	if err != nil {
		return nil, nil, err
	}

	calc, err := s.price(eq, start, end, customRates, insurance)
	if err != nil {
		return nil, nil, err
	}
	return calc, conflicts, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID, equipmentID int32, start, end time.Time, insurance domain.InsuranceType, message string) (*domain.Booking, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if eq.OwnerID == renterID {
		return nil, domain.Validationf("cannot book your own equipment")
	}

	conflicts, err := s.CheckAvailability(ctx, equipmentID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, domain.Conflictf("dates are not available (%s)", conflicts[0].Reason)
	}

	customRates, err := s.customRates(ctx, equipmentID, start, end)
	if err != nil {
		return nil, err
	}
	calc, err := s.price(eq, start, end, customRates, insurance)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		EquipmentID:   equipmentID,
		RenterID:      renterID,
		OwnerID:       eq.OwnerID,
		StartDate:     start,
		EndDate:       end,
		Status:        domain.BookingStatusPending,
		TotalAmount:   calc.Total,
		DepositAmount: calc.Deposit,
		Insurance:     insurance,
		Message:       message,
	}

	// The insert itself re-checks for overlaps, so two racing requests for
	// the same dates cannot both land.
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	metrics.BookingsCreated.Inc()

	s.notifyBoth(ctx, b, events.EventBookingCreated, "New Booking Request",
		fmt.Sprintf("New request for %s (%s to %s)", eq.Name,
			start.Format("2006-01-02"), end.Format("2006-01-02")))

	renter, _ := s.userRepo.GetByID(ctx, renterID)
	owner, _ := s.userRepo.GetByID(ctx, eq.OwnerID)
	if renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, renter.Name, eq.Name)
	}

	return b, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	b, err := s.transition(ctx, bookingID, ownerID, ownerOnly, booking.EventApprove)
	if err != nil {
		return nil, err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingApprovalNotification(ctx, renter.Email, eq.Name, owner.Name)
	}

	s.notifyBoth(ctx, b, events.EventBookingApproved, "Booking Approved",
		fmt.Sprintf("Booking %d was approved", b.ID))
	return b, nil
}

func (s *bookingService) DeclineBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	b, err := s.transition(ctx, bookingID, ownerID, ownerOnly, booking.EventDecline)
	if err != nil {
		return nil, err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingDeclineNotification(ctx, renter.Email, eq.Name, owner.Name)
	}

	s.notifyBoth(ctx, b, events.EventBookingDeclined, "Booking Declined",
		fmt.Sprintf("Booking %d was declined", b.ID))
	return b, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID int32, reason string) (*domain.Booking, *pricing.RefundQuote, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, nil, domain.ErrUnauthorized
	}

	// Fail closed on the inspection lookup: not knowing whether the handoff
	// happened must not open the simple cancel path.
	hasPickup := false
	if _, err := s.inspectionRepo.GetByBookingAndType(ctx, bookingID, domain.InspectionTypePickup); err == nil {
		hasPickup = true
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if !booking.CanCancel(b.Status, hasPickup) {
		metrics.BookingTransitions.WithLabelValues(string(booking.EventCancel), "rejected").Inc()
		return nil, nil, domain.Conflictf("booking %d in status %q cannot be cancelled", b.ID, b.Status)
	}

	quote := pricing.Refund(b.TotalAmount, b.StartDate, time.Now())

	// Refund first. If the gateway rejects it the booking stays as it was;
	// a cancelled booking whose money is stuck would strand the renter.
	// Only a definite "never paid" skips the refund: a store failure here
	// aborts the cancellation rather than silently keeping the money.
	pay, err := s.paymentRepo.GetSucceededByBooking(ctx, bookingID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if err == nil && quote.RefundAmount.Sign() > 0 {
		if err := s.gateway.Refund(ctx, pay.IntentID, quote.RefundAmount,
			fmt.Sprintf("cancellation of booking %d: %s", bookingID, reason)); err != nil {
			metrics.BookingTransitions.WithLabelValues(string(booking.EventCancel), "refund_failed").Inc()
			return nil, nil, domain.Collaboratorf("refund for booking %d failed: %v", bookingID, err)
		}
		if err := s.paymentRepo.UpdatePaymentStatus(ctx, pay.ID, domain.PaymentStatusSucceeded, domain.PaymentStatusRefunded); err != nil {
			logger.ErrorContext(ctx, "Refund issued but payment row not updated",
				"payment_id", pay.ID, "booking_id", bookingID, "error", err)
		}
		if err := s.paymentRepo.UpdateEscrowStatus(ctx, pay.ID, domain.EscrowStatusHeld, domain.EscrowStatusRefunded); err != nil {
			logger.ErrorContext(ctx, "Refund issued but escrow row not updated",
				"payment_id", pay.ID, "booking_id", bookingID, "error", err)
		}
		metrics.RefundsIssued.WithLabelValues(fmt.Sprintf("%d", quote.RefundPercentage)).Inc()
		s.notifyBoth(ctx, b, events.EventPaymentRefunded, "Refund Issued",
			fmt.Sprintf("Refund of %s (%d%%) issued for booking %d", quote.RefundAmount, quote.RefundPercentage, b.ID))
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, domain.BookingStatusCancelled); err != nil {
		metrics.BookingTransitions.WithLabelValues(string(booking.EventCancel), "conflict").Inc()
		return nil, nil, err
	}
	metrics.BookingTransitions.WithLabelValues(string(booking.EventCancel), "ok").Inc()
	b.Status = domain.BookingStatusCancelled

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, b.OwnerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingCancellationNotification(ctx, renter.Email, eq.Name, reason, quote.RefundAmount)
		_ = s.emailSvc.SendBookingCancellationNotification(ctx, owner.Email, eq.Name, reason, decimal.Zero)
	}

	s.notifyBoth(ctx, b, events.EventBookingCancelled, "Booking Cancelled",
		fmt.Sprintf("Booking %d was cancelled (%d%% refund)", b.ID, quote.RefundPercentage))

	return b, &quote, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, *inspection.DiffResult, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.OwnerID != ownerID {
		return nil, nil, domain.ErrUnauthorized
	}

	ret, err := s.inspectionRepo.GetByBookingAndType(ctx, bookingID, domain.InspectionTypeReturn)
	if err != nil {
		return nil, nil, domain.Conflictf("booking %d has no return inspection", bookingID)
	}
	pickup, err := s.inspectionRepo.GetByBookingAndType(ctx, bookingID, domain.InspectionTypePickup)
	if err != nil {
		return nil, nil, domain.Conflictf("booking %d has no pickup inspection", bookingID)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusActive, domain.BookingStatusCompleted); err != nil {
		metrics.BookingTransitions.WithLabelValues(string(booking.EventComplete), "conflict").Inc()
		return nil, nil, err
	}
	metrics.BookingTransitions.WithLabelValues(string(booking.EventComplete), "ok").Inc()
	b.Status = domain.BookingStatusCompleted

	diff := inspection.Diff(pickup.Checklist, ret.Checklist)

	// A clean return schedules the deposit to auto-release once the claim
	// window closes. A degraded one keeps the escrow held so the owner can
	// file a claim against it.
	if pay, err := s.paymentRepo.GetSucceededByBooking(ctx, bookingID); err == nil && pay.DepositAmount.Sign() > 0 {
		if !diff.HasDegraded {
			releaseAt := time.Now().Add(s.claimWindow)
			if err := s.paymentRepo.ScheduleDepositRelease(ctx, pay.ID, releaseAt); err != nil {
				logger.ErrorContext(ctx, "Failed to schedule deposit release",
					"payment_id", pay.ID, "booking_id", bookingID, "error", err)
			}
		} else {
			logger.InfoContext(ctx, "Return inspection found degradation, deposit held",
				"booking_id", bookingID, "degraded_items", len(diff.DegradedItems))
		}
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingCompletionNotification(ctx, owner.Email, "Owner", eq.Name)
		_ = s.emailSvc.SendBookingCompletionNotification(ctx, renter.Email, "Renter", eq.Name)
	}

	s.notifyBoth(ctx, b, events.EventBookingCompleted, "Rental Completed",
		fmt.Sprintf("Booking %d was completed", b.ID))

	return b, &diff, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

func (s *bookingService) ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

type actorRole int

const (
	ownerOnly actorRole = iota
	renterOnly
)

// transition authorizes the actor, resolves the target status through the
// transition table, and applies it with a compare-and-swap. A lost race
// surfaces as a conflict rather than a silent overwrite.
func (s *bookingService) transition(ctx context.Context, bookingID, actorID int32, role actorRole, ev booking.Event) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch role {
	case ownerOnly:
		if b.OwnerID != actorID {
			return nil, domain.ErrUnauthorized
		}
	case renterOnly:
		if b.RenterID != actorID {
			return nil, domain.ErrUnauthorized
		}
	}

	to, err := booking.Next(b.Status, ev)
	if err != nil {
		metrics.BookingTransitions.WithLabelValues(string(ev), "rejected").Inc()
		return nil, err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, to); err != nil {
		metrics.BookingTransitions.WithLabelValues(string(ev), "conflict").Inc()
		return nil, err
	}
	metrics.BookingTransitions.WithLabelValues(string(ev), "ok").Inc()

	b.Status = to
	return b, nil
}

// customRates loads the per-day rate overrides active on the range.
func (s *bookingService) customRates(ctx context.Context, equipmentID int32, start, end time.Time) (map[string]decimal.Decimal, error) {
	slots, err := s.equipmentRepo.GetSlots(ctx, equipmentID, start, end)
	if err != nil {
		return nil, domain.Collaboratorf("loading rate overrides for equipment %d: %v", equipmentID, err)
	}
	rates := make(map[string]decimal.Decimal)
	for _, slot := range slots {
		if slot.CustomRate != nil {
			rates[slot.Date.Format("2006-01-02")] = *slot.CustomRate
		}
	}
	return rates, nil
}

func (s *bookingService) price(eq *domain.Equipment, start, end time.Time, customRates map[string]decimal.Decimal, insurance domain.InsuranceType) (*pricing.Calculation, error) {
	// The deposit depends on the subtotal when percentage-configured, so
	// price once without it to resolve the amount, then price for real.
	base, err := pricing.Calculate(eq.DailyRate, start, end, customRates, insurance, decimal.Zero)
	if err != nil {
		return nil, err
	}
	calc, err := pricing.Calculate(eq.DailyRate, start, end, customRates, insurance, eq.DepositFor(base.Subtotal))
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

// notifyBoth writes in-app notifications and publishes the realtime event.
// All of it is best-effort; a delivery failure never unwinds the transition.
func (s *bookingService) notifyBoth(ctx context.Context, b *domain.Booking, eventType, title, message string) {
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

package service

import (
	"context"
	"fmt"

	"gearshare-backend/internal/booking"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/events"
	"gearshare-backend/internal/inspection"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/repository"
)

type inspectionService struct {
	inspectionRepo repository.InspectionRepository
	bookingRepo    repository.BookingRepository
	noteRepo       repository.NotificationRepository
	notifier       *events.Notifier
}

func NewInspectionService(
	inspectionRepo repository.InspectionRepository,
	bookingRepo repository.BookingRepository,
	noteRepo repository.NotificationRepository,
	notifier *events.Notifier,
) InspectionService {
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		bookingRepo:    bookingRepo,
		noteRepo:       noteRepo,
		notifier:       notifier,
	}
}

func (s *inspectionService) RecordPickup(ctx context.Context, userID int32, insp *domain.Inspection) (*domain.Booking, error) {
	insp.Type = domain.InspectionTypePickup

	b, err := s.authorize(ctx, userID, insp.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingStatusApproved {
		return nil, domain.Conflictf("pickup inspection requires an approved booking, booking %d is %q", b.ID, b.Status)
	}
	if err := validateChecklist(insp.Checklist); err != nil {
		return nil, err
	}

	// The unique (booking, type) constraint makes a duplicate pickup a
	// conflict at the store, not a second activation.
	if err := s.inspectionRepo.Create(ctx, insp); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingStatusApproved, domain.BookingStatusActive); err != nil {
		metrics.BookingTransitions.WithLabelValues(string(booking.EventPickup), "conflict").Inc()
		return nil, err
	}
	metrics.BookingTransitions.WithLabelValues(string(booking.EventPickup), "ok").Inc()
	b.Status = domain.BookingStatusActive

	s.notify(ctx, b, events.EventBookingActivated, "Rental Started",
		fmt.Sprintf("Pickup inspection recorded for booking %d", b.ID))
	return b, nil
}

func (s *inspectionService) RecordReturn(ctx context.Context, userID int32, insp *domain.Inspection) (*inspection.DiffResult, error) {
	insp.Type = domain.InspectionTypeReturn

	b, err := s.authorize(ctx, userID, insp.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingStatusActive {
		return nil, domain.Conflictf("return inspection requires an active booking, booking %d is %q", b.ID, b.Status)
	}
	if err := validateChecklist(insp.Checklist); err != nil {
		return nil, err
	}

	pickup, err := s.inspectionRepo.GetByBookingAndType(ctx, insp.BookingID, domain.InspectionTypePickup)
	if err != nil {
		return nil, domain.Conflictf("booking %d has no pickup inspection to compare against", insp.BookingID)
	}

	if err := s.inspectionRepo.Create(ctx, insp); err != nil {
		return nil, err
	}

	diff := inspection.Diff(pickup.Checklist, insp.Checklist)
	if diff.HasDegraded {
		logger.InfoContext(ctx, "Return inspection recorded with degradation",
			"booking_id", b.ID, "degraded_items", len(diff.DegradedItems))
	}

	s.notify(ctx, b, events.EventReturnRecorded, "Return Recorded",
		fmt.Sprintf("Return inspection recorded for booking %d", b.ID))
	return &diff, nil
}

func (s *inspectionService) GetInspection(ctx context.Context, userID, bookingID int32, t domain.InspectionType) (*domain.Inspection, error) {
	if _, err := s.authorize(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	return s.inspectionRepo.GetByBookingAndType(ctx, bookingID, t)
}

func (s *inspectionService) authorize(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

func (s *inspectionService) notify(ctx context.Context, b *domain.Booking, eventType, title, message string) {
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

func validateChecklist(items []domain.ChecklistItem) error {
	if len(items) == 0 {
		return domain.Validationf("inspection checklist cannot be empty")
	}
	for _, item := range items {
		if item.Item == "" {
			return domain.Validationf("checklist item name is required")
		}
		if item.Status.Ordinal() == 0 {
			return domain.Validationf("unknown condition %q for item %q", item.Status, item.Item)
		}
	}
	return nil
}

package service

import (
	"context"
	"testing"
	"time"

	"gearshare-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingMocks struct {
	bookingRepo    *MockBookingRepo
	equipmentRepo  *MockEquipmentRepo
	paymentRepo    *MockPaymentRepo
	userRepo       *MockUserRepo
	inspectionRepo *MockInspectionRepo
	noteRepo       *MockNotificationRepo
	gateway        *MockGateway
	emailSvc       *MockEmailService
}

func newBookingService(t *testing.T) (BookingService, *bookingMocks) {
	t.Helper()
	m := &bookingMocks{
		bookingRepo:    new(MockBookingRepo),
		equipmentRepo:  new(MockEquipmentRepo),
		paymentRepo:    new(MockPaymentRepo),
		userRepo:       new(MockUserRepo),
		inspectionRepo: new(MockInspectionRepo),
		noteRepo:       new(MockNotificationRepo),
		gateway:        new(MockGateway),
		emailSvc:       new(MockEmailService),
	}
	svc := NewBookingService(
		m.bookingRepo, m.equipmentRepo, m.paymentRepo, m.userRepo,
		m.inspectionRepo, m.noteRepo, m.gateway, m.emailSvc, nil, 72*time.Hour,
	)
	return svc, m
}

// silenceSideEffects makes the best-effort notification plumbing a no-op so
// the tests can focus on the money movement.
func (m *bookingMocks) silenceSideEffects() {
	m.equipmentRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, assert.AnError).Maybe()
	m.userRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, assert.AnError).Maybe()
	m.noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	newApproved := func(daysUntilStart int) *domain.Booking {
		start := time.Now().AddDate(0, 0, daysUntilStart)
		return &domain.Booking{
			ID:            1,
			EquipmentID:   2,
			RenterID:      3,
			OwnerID:       4,
			StartDate:     start,
			EndDate:       start.AddDate(0, 0, 5),
			Status:        domain.BookingStatusApproved,
			TotalAmount:   decimal.RequireFromString("525.00"),
			DepositAmount: decimal.RequireFromString("100.00"),
		}
	}

	t.Run("FullRefundSevenDaysOut", func(t *testing.T) {
		svc, m := newBookingService(t)
		m.silenceSideEffects()
		b := newApproved(10)
		pay := &domain.Payment{ID: 7, BookingID: 1, IntentID: "pi_1", PaymentStatus: domain.PaymentStatusSucceeded, EscrowStatus: domain.EscrowStatusHeld}

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).Return(nil, domain.ErrNotFound)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(pay, nil)
		m.gateway.On("Refund", ctx, "pi_1", mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("525.00"))
		}), mock.Anything).Return(nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusSucceeded, domain.PaymentStatusRefunded).Return(nil)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusRefunded).Return(nil)
		m.bookingRepo.On("UpdateStatus", ctx, int32(1), domain.BookingStatusApproved, domain.BookingStatusCancelled).Return(nil)

		got, quote, err := svc.CancelBooking(ctx, 3, 1, "change of plans")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
		assert.Equal(t, 100, quote.RefundPercentage)
		assert.True(t, quote.RefundAmount.Equal(decimal.RequireFromString("525.00")))
		m.gateway.AssertExpectations(t)
		m.paymentRepo.AssertExpectations(t)
	})

	t.Run("RefundFailureLeavesBookingUntouched", func(t *testing.T) {
		svc, m := newBookingService(t)
		m.silenceSideEffects()
		b := newApproved(5) // 50% tier
		pay := &domain.Payment{ID: 7, BookingID: 1, IntentID: "pi_1", PaymentStatus: domain.PaymentStatusSucceeded, EscrowStatus: domain.EscrowStatusHeld}

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).Return(nil, domain.ErrNotFound)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(pay, nil)
		m.gateway.On("Refund", ctx, "pi_1", mock.Anything, mock.Anything).Return(assert.AnError)

		_, _, err := svc.CancelBooking(ctx, 3, 1, "change of plans")
		assert.ErrorIs(t, err, domain.ErrCollaborator)
		m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnpaidBookingCancelsWithoutGateway", func(t *testing.T) {
		svc, m := newBookingService(t)
		m.silenceSideEffects()
		b := newApproved(1) // 0% tier anyway
		b.Status = domain.BookingStatusPending

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).Return(nil, domain.ErrNotFound)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		m.bookingRepo.On("UpdateStatus", ctx, int32(1), domain.BookingStatusPending, domain.BookingStatusCancelled).Return(nil)

		got, quote, err := svc.CancelBooking(ctx, 4, 1, "owner unavailable")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
		assert.Equal(t, 0, quote.RefundPercentage)
		m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ActiveAfterPickupIsNotCancellable", func(t *testing.T) {
		svc, m := newBookingService(t)
		b := newApproved(0)
		b.Status = domain.BookingStatusActive

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).
			Return(&domain.Inspection{BookingID: 1, Type: domain.InspectionTypePickup}, nil)

		_, _, err := svc.CancelBooking(ctx, 3, 1, "changed my mind")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("PaymentLookupFailureAbortsCancel", func(t *testing.T) {
		// A store failure is not "never paid": cancelling anyway would
		// skip the refund a paid renter is owed.
		svc, m := newBookingService(t)
		b := newApproved(10)

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).Return(nil, domain.ErrNotFound)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).
			Return(nil, domain.Collaboratorf("payments store unavailable"))

		_, _, err := svc.CancelBooking(ctx, 3, 1, "change of plans")
		assert.ErrorIs(t, err, domain.ErrCollaborator)
		m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InspectionLookupFailureAbortsCancel", func(t *testing.T) {
		// Not knowing whether the handoff happened must not open the
		// simple cancel path for an active booking.
		svc, m := newBookingService(t)
		b := newApproved(0)
		b.Status = domain.BookingStatusActive

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.inspectionRepo.On("GetByBookingAndType", ctx, int32(1), domain.InspectionTypePickup).
			Return(nil, domain.Collaboratorf("inspections store unavailable"))

		_, _, err := svc.CancelBooking(ctx, 3, 1, "changed my mind")
		assert.ErrorIs(t, err, domain.ErrCollaborator)
		m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StrangerIsUnauthorized", func(t *testing.T) {
		svc, m := newBookingService(t)
		b := newApproved(10)

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)

		_, _, err := svc.CancelBooking(ctx, 99, 1, "not my booking")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestBookingService_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("ApproveByOwner", func(t *testing.T) {
		svc, m := newBookingService(t)
		m.silenceSideEffects()
		b := &domain.Booking{ID: 1, EquipmentID: 2, RenterID: 3, OwnerID: 4, Status: domain.BookingStatusPending}

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.bookingRepo.On("UpdateStatus", ctx, int32(1), domain.BookingStatusPending, domain.BookingStatusApproved).Return(nil)

		got, err := svc.ApproveBooking(ctx, 4, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusApproved, got.Status)
	})

	t.Run("ApproveByRenterIsUnauthorized", func(t *testing.T) {
		svc, m := newBookingService(t)
		b := &domain.Booking{ID: 1, RenterID: 3, OwnerID: 4, Status: domain.BookingStatusPending}

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)

		_, err := svc.ApproveBooking(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LostStatusRaceSurfacesConflict", func(t *testing.T) {
		svc, m := newBookingService(t)
		b := &domain.Booking{ID: 1, RenterID: 3, OwnerID: 4, Status: domain.BookingStatusPending}

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.bookingRepo.On("UpdateStatus", ctx, int32(1), domain.BookingStatusPending, domain.BookingStatusDeclined).
			Return(domain.Conflictf("booking 1 is no longer pending"))

		_, err := svc.DeclineBooking(ctx, 4, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

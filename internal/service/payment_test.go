package service

import (
	"context"
	"testing"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentMocks struct {
	paymentRepo *MockPaymentRepo
	bookingRepo *MockBookingRepo
	gateway     *MockGateway
	noteRepo    *MockNotificationRepo
}

func newPaymentService(t *testing.T) (PaymentService, *paymentMocks) {
	t.Helper()
	m := &paymentMocks{
		paymentRepo: new(MockPaymentRepo),
		bookingRepo: new(MockBookingRepo),
		gateway:     new(MockGateway),
		noteRepo:    new(MockNotificationRepo),
	}
	svc := NewPaymentService(m.paymentRepo, m.bookingRepo, m.gateway, m.noteRepo, nil, 3, time.Millisecond)
	return svc, m
}

func approvedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		RenterID:      3,
		OwnerID:       4,
		Status:        domain.BookingStatusApproved,
		TotalAmount:   decimal.RequireFromString("525.00"),
		DepositAmount: decimal.RequireFromString("100.00"),
	}
}

func TestPaymentService_CreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("DoubleSubmitReusesIntent", func(t *testing.T) {
		svc, m := newPaymentService(t)
		b := approvedBooking()

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		m.gateway.On("CreateIntent", ctx, int32(1), mock.Anything).
			Return(&payment.Intent{IntentID: "pi_1", ClientSecret: "cs_1"}, nil).Once()
		m.paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.BookingID == 1 &&
				p.PaymentStatus == domain.PaymentStatusPending &&
				p.EscrowStatus == domain.EscrowStatusHeld &&
				p.DepositAmount.Equal(b.DepositAmount)
		})).Return(nil).Once()

		first, err := svc.CreateIntent(ctx, 3, 1)
		require.NoError(t, err)

		second, err := svc.CreateIntent(ctx, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, first.IntentID, second.IntentID)
		m.gateway.AssertExpectations(t)
		m.paymentRepo.AssertExpectations(t)
	})

	t.Run("ConcurrentInitializationIsGuarded", func(t *testing.T) {
		// The guard entry is reserved before the gateway call, so a second
		// submission arriving while the first is still inside the gateway
		// must be rejected instead of opening a second intent.
		svc, m := newPaymentService(t)
		b := approvedBooking()

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		m.gateway.On("CreateIntent", ctx, int32(1), mock.Anything).
			Run(func(args mock.Arguments) {
				_, err := svc.CreateIntent(ctx, 3, 1)
				assert.ErrorIs(t, err, domain.ErrConflict)
			}).
			Return(&payment.Intent{IntentID: "pi_1", ClientSecret: "cs_1"}, nil).Once()
		m.paymentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.CreateIntent(ctx, 3, 1)
		require.NoError(t, err)
		m.gateway.AssertNumberOfCalls(t, "CreateIntent", 1)
		m.paymentRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("GuardResetsOnGatewayError", func(t *testing.T) {
		svc, m := newPaymentService(t)
		b := approvedBooking()

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		m.gateway.On("CreateIntent", ctx, int32(1), mock.Anything).
			Return(nil, assert.AnError).Once()
		m.gateway.On("CreateIntent", ctx, int32(1), mock.Anything).
			Return(&payment.Intent{IntentID: "pi_2", ClientSecret: "cs_2"}, nil).Once()
		m.paymentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.CreateIntent(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrCollaborator)

		// The failed attempt released the guard; a retry goes through.
		intent, err := svc.CreateIntent(ctx, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, "pi_2", intent.IntentID)
	})

	t.Run("AlreadyPaidIsConflict", func(t *testing.T) {
		svc, m := newPaymentService(t)
		b := approvedBooking()

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).
			Return(&domain.Payment{ID: 7, BookingID: 1, PaymentStatus: domain.PaymentStatusSucceeded}, nil)

		_, err := svc.CreateIntent(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)
		m.gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RequiresApprovedBooking", func(t *testing.T) {
		svc, m := newPaymentService(t)
		b := approvedBooking()
		b.Status = domain.BookingStatusPending

		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(b, nil)

		_, err := svc.CreateIntent(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("OnlyRenterMayPay", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(approvedBooking(), nil)

		_, err := svc.CreateIntent(ctx, 4, 1)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	pending := func() *domain.Payment {
		return &domain.Payment{
			ID:            7,
			BookingID:     1,
			IntentID:      "pi_1",
			Amount:        decimal.RequireFromString("525.00"),
			DepositAmount: decimal.RequireFromString("100.00"),
			PaymentStatus: domain.PaymentStatusPending,
			EscrowStatus:  domain.EscrowStatusHeld,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := pending()

		m.paymentRepo.On("GetByIntentID", ctx, "pi_1").Return(p, nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusPending, domain.PaymentStatusProcessing).Return(nil)
		m.gateway.On("Confirm", ctx, "pi_1").Return(nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusProcessing, domain.PaymentStatusSucceeded).Return(nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(p, nil)
		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(approvedBooking(), nil)
		m.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

		got, err := svc.ConfirmPayment(ctx, "pi_1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusSucceeded, got.PaymentStatus)
		// Capture notifies both parties.
		m.noteRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("GatewayFailureMarksFailed", func(t *testing.T) {
		svc, m := newPaymentService(t)
		p := pending()

		m.paymentRepo.On("GetByIntentID", ctx, "pi_1").Return(p, nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusPending, domain.PaymentStatusProcessing).Return(nil)
		m.gateway.On("Confirm", ctx, "pi_1").Return(assert.AnError)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusProcessing, domain.PaymentStatusFailed).Return(nil).Once()

		_, err := svc.ConfirmPayment(ctx, "pi_1")
		assert.ErrorIs(t, err, domain.ErrCollaborator)
		m.paymentRepo.AssertExpectations(t)
		m.noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ProceedsWhenRowNotYetVisible", func(t *testing.T) {
		// Replica lag: the succeeded row never shows up inside the poll
		// budget. Confirmation still succeeds; reconciliation reads the
		// earliest succeeded row later.
		svc, m := newPaymentService(t)
		p := pending()

		m.paymentRepo.On("GetByIntentID", ctx, "pi_1").Return(p, nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusPending, domain.PaymentStatusProcessing).Return(nil)
		m.gateway.On("Confirm", ctx, "pi_1").Return(nil)
		m.paymentRepo.On("UpdatePaymentStatus", ctx, int32(7), domain.PaymentStatusProcessing, domain.PaymentStatusSucceeded).Return(nil)
		m.paymentRepo.On("GetSucceededByBooking", ctx, int32(1)).Return(nil, domain.ErrNotFound)
		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(approvedBooking(), nil)
		m.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

		got, err := svc.ConfirmPayment(ctx, "pi_1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusSucceeded, got.PaymentStatus)
	})
}

func TestPaymentService_ReleaseDeposit(t *testing.T) {
	ctx := context.Background()

	held := func() *domain.Payment {
		return &domain.Payment{
			ID:            7,
			BookingID:     1,
			IntentID:      "pi_1",
			DepositAmount: decimal.RequireFromString("100.00"),
			PaymentStatus: domain.PaymentStatusSucceeded,
			EscrowStatus:  domain.EscrowStatusHeld,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.paymentRepo.On("GetByID", ctx, int32(7)).Return(held(), nil)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusReleased).Return(nil)
		m.gateway.On("Refund", ctx, "pi_1", mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("100.00"))
		}), "deposit release").Return(nil)
		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(approvedBooking(), nil)
		m.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

		err := svc.ReleaseDeposit(ctx, 7)
		assert.NoError(t, err)
		m.gateway.AssertExpectations(t)
	})

	t.Run("LostSwapSendsNoMoney", func(t *testing.T) {
		// A claim already moved the escrow to disputed; losing the swap
		// must keep the gateway untouched, otherwise the deposit moves
		// even though the release never commits.
		svc, m := newPaymentService(t)

		m.paymentRepo.On("GetByID", ctx, int32(7)).Return(held(), nil)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusReleased).
			Return(domain.Conflictf("payment 7 escrow is no longer held"))

		err := svc.ReleaseDeposit(ctx, 7)
		assert.ErrorIs(t, err, domain.ErrConflict)
		m.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StaleRowReleasesOnce", func(t *testing.T) {
		// Two runners read the same held row; only the swap winner may
		// send the refund.
		svc, m := newPaymentService(t)

		m.paymentRepo.On("GetByID", ctx, int32(7)).Return(held(), nil)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusReleased).
			Return(nil).Once()
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusReleased).
			Return(domain.Conflictf("payment 7 escrow is no longer held")).Once()
		m.gateway.On("Refund", ctx, "pi_1", mock.Anything, "deposit release").Return(nil)
		m.bookingRepo.On("GetByID", ctx, int32(1)).Return(approvedBooking(), nil)
		m.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.ReleaseDeposit(ctx, 7))
		assert.ErrorIs(t, svc.ReleaseDeposit(ctx, 7), domain.ErrConflict)
		m.gateway.AssertNumberOfCalls(t, "Refund", 1)
	})

	t.Run("RefundFailureRollsEscrowBack", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.paymentRepo.On("GetByID", ctx, int32(7)).Return(held(), nil)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusHeld, domain.EscrowStatusReleased).Return(nil)
		m.gateway.On("Refund", ctx, "pi_1", mock.Anything, "deposit release").Return(assert.AnError)
		m.paymentRepo.On("UpdateEscrowStatus", ctx, int32(7), domain.EscrowStatusReleased, domain.EscrowStatusHeld).Return(nil).Once()

		err := svc.ReleaseDeposit(ctx, 7)
		assert.ErrorIs(t, err, domain.ErrCollaborator)
		m.paymentRepo.AssertExpectations(t)
	})
}

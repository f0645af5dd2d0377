package service

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error) {
	args := m.Called(ctx, equipmentID, start, end, excludeBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) CountCompletedForUser(ctx context.Context, userID int32) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) AverageOwnerResponseHours(ctx context.Context, ownerID int32) (float64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(float64), args.Error(1)
}

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Update(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}
func (m *MockEquipmentRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}
func (m *MockEquipmentRepo) UpsertSlot(ctx context.Context, slot *domain.AvailabilitySlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
func (m *MockEquipmentRepo) GetSlots(ctx context.Context, equipmentID int32, start, end time.Time) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, equipmentID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}
func (m *MockEquipmentRepo) FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error) {
	args := m.Called(ctx, equipmentID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetSucceededByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdatePaymentStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockPaymentRepo) UpdateEscrowStatus(ctx context.Context, id int32, from, to domain.EscrowStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockPaymentRepo) ScheduleDepositRelease(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockPaymentRepo) FindDepositsDue(ctx context.Context, now time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockInspectionRepo
type MockInspectionRepo struct {
	mock.Mock
}

func (m *MockInspectionRepo) Create(ctx context.Context, insp *domain.Inspection) error {
	args := m.Called(ctx, insp)
	return args.Error(0)
}
func (m *MockInspectionRepo) GetByBookingAndType(ctx context.Context, bookingID int32, t domain.InspectionType) (*domain.Inspection, error) {
	args := m.Called(ctx, bookingID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspection), args.Error(1)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, claim *domain.DamageClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) GetByID(ctx context.Context, id int32) (*domain.DamageClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageClaim), args.Error(1)
}
func (m *MockClaimRepo) Update(ctx context.Context, claim *domain.DamageClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.DamageClaim, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DamageClaim), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, bookingID int32, amount decimal.Decimal) (*payment.Intent, error) {
	args := m.Called(ctx, bookingID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}
func (m *MockGateway) Confirm(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}
func (m *MockGateway) Refund(ctx context.Context, intentID string, amount decimal.Decimal, reason string) error {
	args := m.Called(ctx, intentID, amount, reason)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error {
	args := m.Called(ctx, renterEmail, equipmentName, ownerName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDeclineNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error {
	args := m.Called(ctx, renterEmail, equipmentName, ownerName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string, refundAmount decimal.Decimal) error {
	args := m.Called(ctx, email, equipmentName, reason, refundAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string) error {
	args := m.Called(ctx, email, role, equipmentName)
	return args.Error(0)
}
func (m *MockEmailService) SendDepositReleaseNotification(ctx context.Context, renterEmail, equipmentName string, amount decimal.Decimal) error {
	args := m.Called(ctx, renterEmail, equipmentName, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCost decimal.Decimal) error {
	args := m.Called(ctx, renterEmail, equipmentName, estimatedCost)
	return args.Error(0)
}

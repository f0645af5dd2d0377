package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gearshare-backend/internal/availability"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/inspection"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/trust"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type EquipmentService interface {
	AddEquipment(ctx context.Context, eq *domain.Equipment) error
	GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, ownerID int32, eq *domain.Equipment) error
	ListMyEquipment(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Equipment, int32, error)

	// SetSlot lets an owner block a date or override its rate.
	SetSlot(ctx context.Context, ownerID int32, slot *domain.AvailabilitySlot) error
	GetCalendar(ctx context.Context, equipmentID int32, start, end time.Time) ([]domain.AvailabilitySlot, error)
}

type BookingService interface {
	// CheckAvailability runs every conflict rule and returns all violations.
	CheckAvailability(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]availability.Conflict, error)

	// Quote prices a date range without creating anything.
	Quote(ctx context.Context, equipmentID int32, start, end time.Time, insurance domain.InsuranceType) (*pricing.Calculation, []availability.Conflict, error)

	CreateBooking(ctx context.Context, renterID, equipmentID int32, start, end time.Time, insurance domain.InsuranceType, message string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)
	DeclineBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)

	// CancelBooking refunds first and transitions second; a failed refund
	// leaves the booking untouched.
	CancelBooking(ctx context.Context, userID, bookingID int32, reason string) (*domain.Booking, *pricing.RefundQuote, error)

	// CompleteBooking requires a return inspection. A clean condition diff
	// schedules the deposit release; a degraded one holds it for a claim.
	CompleteBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, *inspection.DiffResult, error)

	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PaymentService interface {
	// CreateIntent is idempotent per booking: a second call while one is
	// in flight returns the pending intent instead of creating another.
	CreateIntent(ctx context.Context, renterID, bookingID int32) (*payment.Intent, error)

	// ConfirmPayment captures the intent and polls until the succeeded row
	// is visible in the store, proceeding with a warning if it is not yet.
	ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error)

	GetPayment(ctx context.Context, userID int32, paymentID int32) (*domain.Payment, error)

	// ReleaseDeposit moves a held escrow to released, exactly once.
	ReleaseDeposit(ctx context.Context, paymentID int32) error
}

type InspectionService interface {
	// RecordPickup stores the pickup checklist and activates the booking.
	RecordPickup(ctx context.Context, userID int32, insp *domain.Inspection) (*domain.Booking, error)

	// RecordReturn stores the return checklist; completion is a separate step.
	RecordReturn(ctx context.Context, userID int32, insp *domain.Inspection) (*inspection.DiffResult, error)

	GetInspection(ctx context.Context, userID, bookingID int32, t domain.InspectionType) (*domain.Inspection, error)
}

type ClaimService interface {
	// FileClaim requires a completed booking with a return inspection,
	// inside the claim window. It moves the escrow to disputed.
	FileClaim(ctx context.Context, ownerID, bookingID int32, description string, estimatedCost decimal.Decimal, evidence []string) (*domain.DamageClaim, error)

	ResolveClaim(ctx context.Context, claimID int32, resolution domain.ClaimResolution) (*domain.DamageClaim, error)
	ListClaims(ctx context.Context, userID, bookingID int32) ([]domain.DamageClaim, error)
}

type TrustService interface {
	// GetScore computes the composite score. A missing verification profile
	// fails the call; missing review or booking data degrades to zero.
	GetScore(ctx context.Context, userID int32) (*trust.Result, error)

	SubmitReview(ctx context.Context, reviewerID int32, review *domain.Review) error
	SetVerification(ctx context.Context, profile *domain.VerificationProfile) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error
	SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error
	SendBookingDeclineNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error
	SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string, refundAmount decimal.Decimal) error
	SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string) error
	SendDepositReleaseNotification(ctx context.Context, renterEmail, equipmentName string, amount decimal.Decimal) error
	SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCost decimal.Decimal) error
}

package repository

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id int32) (*domain.Equipment, error)
	Update(ctx context.Context, eq *domain.Equipment) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Equipment, int32, error)

	// Availability slots (sparse per-date overrides)
	UpsertSlot(ctx context.Context, slot *domain.AvailabilitySlot) error
	GetSlots(ctx context.Context, equipmentID int32, start, end time.Time) ([]domain.AvailabilitySlot, error)
	FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)

	// FindOverlapping returns calendar-holding bookings on the equipment
	// sharing at least one day with [start, end), minus the excluded id.
	FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error)

	// UpdateStatus is a compare-and-swap: the write applies only when the
	// stored status still equals from, otherwise domain.ErrConflict is
	// returned and nothing changes. This is what guarantees at most one
	// terminal transition per booking.
	UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error

	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ExpirePending cancels pending requests created before the cutoff and
	// returns how many were affected.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)

	CountCompletedForUser(ctx context.Context, userID int32) (int, error)

	// AverageOwnerResponseHours measures the owner's mean latency between a
	// request arriving and its first approve/decline, in hours. Zero means
	// no responses have been recorded yet.
	AverageOwnerResponseHours(ctx context.Context, ownerID int32) (float64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)

	// GetSucceededByBooking returns the earliest succeeded payment for the
	// booking; concurrent duplicate captures reconcile to that row.
	GetSucceededByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error)

	UpdatePaymentStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error

	// UpdateEscrowStatus is a compare-and-swap on escrow_status, enforcing
	// the released-at-most-once invariant.
	UpdateEscrowStatus(ctx context.Context, id int32, from, to domain.EscrowStatus) error

	ScheduleDepositRelease(ctx context.Context, id int32, at time.Time) error
	FindDepositsDue(ctx context.Context, now time.Time) ([]domain.Payment, error)
}

type InspectionRepository interface {
	// Create fails with domain.ErrConflict when an inspection of the same
	// type already exists for the booking.
	Create(ctx context.Context, insp *domain.Inspection) error
	GetByBookingAndType(ctx context.Context, bookingID int32, t domain.InspectionType) (*domain.Inspection, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.DamageClaim) error
	GetByID(ctx context.Context, id int32) (*domain.DamageClaim, error)
	Update(ctx context.Context, claim *domain.DamageClaim) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.DamageClaim, error)
}

type VerificationRepository interface {
	GetProfile(ctx context.Context, userID int32) (*domain.VerificationProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.VerificationProfile) error
	GetReviewStats(ctx context.Context, userID int32) (domain.ReviewStats, error)
	CreateReview(ctx context.Context, review *domain.Review) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

package jobs

import (
	"context"
	"errors"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
)

// ReleaseDueDeposits releases every held deposit whose claim window has
// elapsed. A deposit that was moved to disputed in the meantime loses the
// compare-and-swap inside ReleaseDeposit and is skipped.
func (jr *JobRunner) ReleaseDueDeposits() {
	jr.runWithRecovery("ReleaseDueDeposits", func() {
		ctx := context.Background()

		due, err := jr.store.PaymentRepository.FindDepositsDue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to load due deposits", "error", err)
			return
		}

		released := 0
		for _, p := range due {
			if err := jr.services.Payment.ReleaseDeposit(ctx, p.ID); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					logger.Info("Deposit no longer releasable, skipping",
						"payment_id", p.ID, "booking_id", p.BookingID)
					continue
				}
				logger.Error("Failed to release deposit",
					"payment_id", p.ID, "booking_id", p.BookingID, "error", err)
				continue
			}
			released++

			booking, err := jr.store.BookingRepository.GetByID(ctx, p.BookingID)
			if err != nil {
				continue
			}
			renter, err := jr.store.UserRepository.GetByID(ctx, booking.RenterID)
			if err != nil {
				continue
			}
			eq, err := jr.store.EquipmentRepository.GetByID(ctx, booking.EquipmentID)
			if err != nil {
				continue
			}
			if err := jr.services.Email.SendDepositReleaseNotification(ctx, renter.Email, eq.Name, p.DepositAmount); err != nil {
				logger.Warn("Failed to send deposit release email",
					"payment_id", p.ID, "error", err)
			}
		}

		logger.Info("Released due deposits", "due", len(due), "released", released)
	})
}

// ExpirePendingBookings cancels booking requests that sat unanswered past
// the pending expiry cutoff, freeing their calendar holds.
func (jr *JobRunner) ExpirePendingBookings() {
	jr.runWithRecovery("ExpirePendingBookings", func() {
		ctx := context.Background()

		cutoff := time.Now().AddDate(0, 0, -jr.config.Booking.PendingExpiryDays)
		expired, err := jr.store.BookingRepository.ExpirePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to expire pending bookings", "error", err)
			return
		}

		logger.Info("Expired stale pending bookings", "count", expired, "cutoff", cutoff.Format("2006-01-02"))
	})
}

// Package availability decides whether a proposed date range may be booked.
package availability

import (
	"context"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
)

type ConflictType string

const (
	ConflictMinimumDays ConflictType = "minimum_days"
	ConflictMaximumDays ConflictType = "maximum_days"
	ConflictOverlap     ConflictType = "overlap"
	ConflictUnavailable ConflictType = "unavailable"
)

const (
	MinRentalDays = 1
	MaxRentalDays = 30
)

type Conflict struct {
	Type      ConflictType `json:"type"`
	Reason    string       `json:"reason"`
	BookingID *int32       `json:"booking_id,omitempty"`
}

// Store is the narrow slice of persistence the checker needs.
type Store interface {
	// FindOverlapping returns bookings on the equipment whose status holds
	// the calendar and whose range shares at least one day with [start, end).
	FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error)
	// FindBlockedDates returns owner-blocked calendar dates within [start, end).
	FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error)
}

type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// CheckConflicts evaluates every rule independently and returns all
// violations rather than short-circuiting at the first one. When the store
// cannot answer, the checker fails closed with an unavailable conflict: a
// false "available" is the unsafe direction.
func (c *Checker) CheckConflicts(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) []Conflict {
	var conflicts []Conflict

	days := int(end.Sub(start) / (24 * time.Hour))
	if days < MinRentalDays {
		conflicts = append(conflicts, Conflict{
			Type:   ConflictMinimumDays,
			Reason: fmt.Sprintf("rental must span at least %d day", MinRentalDays),
		})
	}
	if days > MaxRentalDays {
		conflicts = append(conflicts, Conflict{
			Type:   ConflictMaximumDays,
			Reason: fmt.Sprintf("rental may span at most %d days", MaxRentalDays),
		})
	}

	overlapping, err := c.store.FindOverlapping(ctx, equipmentID, start, end, excludeBookingID)
	if err != nil {
		logger.ErrorContext(ctx, "Availability query failed, failing closed",
			"equipment_id", equipmentID, "error", err)
		conflicts = append(conflicts, Conflict{
			Type:   ConflictUnavailable,
			Reason: "availability could not be verified",
		})
	} else {
		for _, b := range overlapping {
			id := b.ID
			conflicts = append(conflicts, Conflict{
				Type:      ConflictOverlap,
				Reason:    fmt.Sprintf("dates overlap booking %d (%s)", b.ID, b.Status),
				BookingID: &id,
			})
		}
	}

	blocked, err := c.store.FindBlockedDates(ctx, equipmentID, start, end)
	if err != nil {
		logger.ErrorContext(ctx, "Blocked-date query failed, failing closed",
			"equipment_id", equipmentID, "error", err)
		conflicts = append(conflicts, Conflict{
			Type:   ConflictUnavailable,
			Reason: "blocked dates could not be verified",
		})
	} else {
		for _, date := range blocked {
			conflicts = append(conflicts, Conflict{
				Type:   ConflictUnavailable,
				Reason: fmt.Sprintf("owner has blocked %s", date.Format("2006-01-02")),
			})
		}
	}

	return conflicts
}

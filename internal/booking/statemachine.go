// Package booking defines the closed transition table governing a booking's
// life. Status writes happen only through this table plus a compare-and-swap
// against the store, so illegal transitions fail loudly instead of silently
// no-oping on a string comparison.
package booking

import "gearshare-backend/internal/domain"

type Event string

const (
	EventApprove  Event = "approve"
	EventDecline  Event = "decline"
	EventPickup   Event = "pickup"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

// transitions is exhaustive over legal (status, event) pairs. Cancellation
// from active carries an extra pre-handoff guard (no pickup inspection yet)
// that the service enforces; once the equipment has changed hands the only
// way out is the return flow.
var transitions = map[domain.BookingStatus]map[Event]domain.BookingStatus{
	domain.BookingStatusPending: {
		EventApprove: domain.BookingStatusApproved,
		EventDecline: domain.BookingStatusDeclined,
		EventCancel:  domain.BookingStatusCancelled,
	},
	domain.BookingStatusApproved: {
		EventPickup: domain.BookingStatusActive,
		EventCancel: domain.BookingStatusCancelled,
	},
	domain.BookingStatusActive: {
		EventCancel:   domain.BookingStatusCancelled,
		EventComplete: domain.BookingStatusCompleted,
	},
}

// Next returns the target status for an event, or a conflict error when the
// transition is illegal from the current status.
func Next(from domain.BookingStatus, ev Event) (domain.BookingStatus, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return "", domain.Conflictf("cannot %s a booking in status %q", ev, from)
}

// CanCancel applies the pre-handoff asymmetry: an active booking with a
// recorded pickup inspection is not cancellable through the simple path.
func CanCancel(status domain.BookingStatus, hasPickupInspection bool) bool {
	if _, ok := transitions[status][EventCancel]; !ok {
		return false
	}
	if status == domain.BookingStatusActive && hasPickupInspection {
		return false
	}
	return true
}

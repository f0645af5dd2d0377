package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition may leave this status.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusDeclined, BookingStatusCancelled:
		return true
	}
	return false
}

// HoldsCalendar reports whether a booking in this status blocks the
// equipment's calendar for overlapping date ranges.
func (s BookingStatus) HoldsCalendar() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusActive:
		return true
	}
	return false
}

type InsuranceType string

const (
	InsuranceNone    InsuranceType = "none"
	InsuranceBasic   InsuranceType = "basic"
	InsurancePremium InsuranceType = "premium"
)

type Booking struct {
	ID          int32           `json:"id"`
	EquipmentID int32           `json:"equipment_id"`
	RenterID    int32           `json:"renter_id"`
	OwnerID     int32           `json:"owner_id"` // derived from the equipment at creation
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"` // exclusive; end > start
	Status      BookingStatus   `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"` // always the pricing output, deposit included
	// DepositAmount is the refundable slice of TotalAmount, frozen at
	// creation so later equipment edits cannot change what gets returned.
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Insurance     InsuranceType   `json:"insurance_type"`
	Message       string          `json:"message,omitempty"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}

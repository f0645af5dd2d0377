package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
	EscrowStatusDisputed EscrowStatus = "disputed"
)

// Payment is the escrow ledger entry for a booking. At most one succeeded
// payment per booking is meaningful; duplicates from concurrent capture
// attempts reconcile to the earliest succeeded row.
type Payment struct {
	ID            int32           `json:"id"`
	BookingID     int32           `json:"booking_id"`
	IntentID      string          `json:"intent_id"`
	Amount        decimal.Decimal `json:"amount"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	EscrowStatus  EscrowStatus    `json:"escrow_status"`
	// DepositReleaseAt is set when a completed booking passes the return
	// inspection with no degradation: the deposit auto-releases once the
	// claim window elapses, unless a claim moves the escrow to disputed.
	DepositReleaseAt *time.Time `json:"deposit_release_at,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
	UpdatedOn        time.Time  `json:"updated_on"`
}

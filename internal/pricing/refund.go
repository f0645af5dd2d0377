package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundQuote is a pure calculation. Actual fund movement only ever happens
// as a side effect of a cancellation transition, never speculatively.
type RefundQuote struct {
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RefundPercentage int             `json:"refund_percentage"`
}

// Refund maps time-to-start onto the cancellation tiers: a full week or more
// of notice refunds everything, 3-6 days refunds half, anything later
// refunds nothing.
func Refund(totalAmount decimal.Decimal, startDate, cancelledAt time.Time) RefundQuote {
	daysUntilStart := int(startDate.Sub(cancelledAt) / (24 * time.Hour))

	var percentage int64
	switch {
	case daysUntilStart >= 7:
		percentage = 100
	case daysUntilStart >= 3:
		percentage = 50
	default:
		percentage = 0
	}

	amount := totalAmount.
		Mul(decimal.NewFromInt(percentage)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	return RefundQuote{RefundAmount: amount, RefundPercentage: int(percentage)}
}

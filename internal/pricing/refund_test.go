package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundTiers(t *testing.T) {
	cancelledAt := date("2026-09-01")
	total := dec("1000")

	cases := []struct {
		name       string
		startDate  time.Time
		percentage int
		amount     string
	}{
		{"ten days out", date("2026-09-11"), 100, "1000"},
		{"exactly seven days", date("2026-09-08"), 100, "1000"},
		{"five days out", date("2026-09-06"), 50, "500"},
		{"exactly three days", date("2026-09-04"), 50, "500"},
		{"one day out", date("2026-09-02"), 0, "0"},
		{"same day", date("2026-09-01"), 0, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote := Refund(total, tc.startDate, cancelledAt)
			assert.Equal(t, tc.percentage, quote.RefundPercentage)
			assert.True(t, quote.RefundAmount.Equal(dec(tc.amount)),
				"refund: %s, expected %s", quote.RefundAmount, tc.amount)
		})
	}
}

func TestRefundPartialDayTruncates(t *testing.T) {
	// 6 days and 20 hours of notice is still the 50% tier, not 100%.
	start := date("2026-09-08")
	cancelledAt := start.Add(-(6*24 + 20) * time.Hour)
	quote := Refund(dec("100"), start, cancelledAt)
	assert.Equal(t, 50, quote.RefundPercentage)
}

func TestRefundRoundsToCents(t *testing.T) {
	quote := Refund(dec("333.33"), date("2026-09-06"), date("2026-09-01"))
	assert.True(t, quote.RefundAmount.Equal(dec("166.67")), "refund: %s", quote.RefundAmount)
}

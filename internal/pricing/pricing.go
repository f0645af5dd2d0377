package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"gearshare-backend/internal/domain"
)

// ServiceFeeRate is the fixed 5% platform fee. It is not configurable per
// booking; the display layer must derive its breakdown from the same number.
var ServiceFeeRate = decimal.NewFromFloat(0.05)

// insuranceRates is the fixed three-tier table, applied to the subtotal.
var insuranceRates = map[domain.InsuranceType]decimal.Decimal{
	domain.InsuranceNone:    decimal.Zero,
	domain.InsuranceBasic:   decimal.NewFromFloat(0.05),
	domain.InsurancePremium: decimal.NewFromFloat(0.10),
}

const dateKeyFormat = "2006-01-02"

// Calculation is an itemized rental quote. Every derived field is rounded
// to two decimals at the step that produces it, so a redisplayed breakdown
// re-adds to the same total without floating drift.
type Calculation struct {
	Days       int             `json:"days"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Insurance  decimal.Decimal `json:"insurance"`
	Deposit    decimal.Decimal `json:"deposit"`
	Total      decimal.Decimal `json:"total"`
}

// Calculate prices a date range at the base daily rate, honoring per-day
// custom rate overrides keyed by yyyy-mm-dd. The deposit is a pass-through
// amount and bears no fee. Zero-length or inverted ranges are a caller
// precondition (the availability checker rejects them upstream) and return
// a validation error here.
func Calculate(
	dailyRate decimal.Decimal,
	start, end time.Time,
	customRates map[string]decimal.Decimal,
	insurance domain.InsuranceType,
	deposit decimal.Decimal,
) (Calculation, error) {
	days := wholeDaysCeil(start, end)
	if days < 1 {
		return Calculation{}, domain.Validationf("date range %s..%s has no rentable days",
			start.Format(dateKeyFormat), end.Format(dateKeyFormat))
	}
	if dailyRate.Sign() <= 0 {
		return Calculation{}, domain.Validationf("daily rate must be positive, got %s", dailyRate)
	}

	if insurance == "" {
		insurance = domain.InsuranceNone
	}
	insuranceRate, ok := insuranceRates[insurance]
	if !ok {
		return Calculation{}, domain.Validationf("unknown insurance type %q", insurance)
	}

	subtotal := decimal.Zero
	// Key override lookups by the start's wall-clock date, not the UTC
	// instant: truncating the absolute time shifts the yyyy-mm-dd key for
	// non-UTC callers and silently misses overrides.
	y, m, d := start.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		rate := dailyRate
		if custom, ok := customRates[day.Format(dateKeyFormat)]; ok {
			rate = custom
		}
		subtotal = subtotal.Add(rate)
		day = day.AddDate(0, 0, 1)
	}
	subtotal = subtotal.Round(2)

	serviceFee := subtotal.Mul(ServiceFeeRate).Round(2)
	insuranceFee := subtotal.Mul(insuranceRate).Round(2)
	deposit = deposit.Round(2)
	total := subtotal.Add(serviceFee).Add(insuranceFee).Add(deposit).Round(2)

	return Calculation{
		Days:       days,
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Insurance:  insuranceFee,
		Deposit:    deposit,
		Total:      total,
	}, nil
}

// wholeDaysCeil returns ceil((end-start) / 24h).
func wholeDaysCeil(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

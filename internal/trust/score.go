// Package trust computes the 0-100 composite trust score used to screen
// counterparties. Score is a pure function: identical inputs always produce
// identical outputs.
package trust

import "math"

// Component point budgets (sum to 100).
const (
	identityPoints = 15
	phonePoints    = 8
	emailPoints    = 7

	maxReviewPoints    = 20
	maxVolumeBonus     = 5.0
	maxBookingPoints   = 20
	pointsPerBooking   = 2
	maxAccountAgePts   = 10
	daysPerAccountYear = 365.0
)

type Input struct {
	IdentityVerified         bool
	PhoneVerified            bool
	EmailVerified            bool
	CompletedBookings        int
	AverageRating            float64 // 0..5
	TotalReviews             int
	AverageResponseTimeHours float64
	AccountAgeDays           int
}

// Components are the per-factor scores. Each is rounded independently
// before summing; the per-component rounding is load-bearing for score
// stability and must not be collapsed into a single final round.
type Components struct {
	Verification      int `json:"verification"`
	Reviews           int `json:"reviews"`
	CompletedBookings int `json:"completed_bookings"`
	Responsiveness    int `json:"responsiveness"`
	AccountAge        int `json:"account_age"`
}

type Result struct {
	Overall    int        `json:"overall"`
	Label      string     `json:"label"`
	Components Components `json:"components"`
}

func Score(in Input) Result {
	c := Components{
		Verification:      verificationScore(in),
		Reviews:           reviewScore(in),
		CompletedBookings: bookingScore(in.CompletedBookings),
		Responsiveness:    responsivenessScore(in.AverageResponseTimeHours),
		AccountAge:        accountAgeScore(in.AccountAgeDays),
	}

	overall := c.Verification + c.Reviews + c.CompletedBookings + c.Responsiveness + c.AccountAge

	return Result{Overall: overall, Label: Label(overall), Components: c}
}

// Label buckets an overall score for display.
func Label(overall int) string {
	switch {
	case overall >= 80:
		return "Excellent"
	case overall >= 60:
		return "Good"
	case overall >= 40:
		return "Fair"
	default:
		return "Building Trust"
	}
}

// verificationScore awards all-or-nothing points per verified channel,
// up to 30.
func verificationScore(in Input) int {
	score := 0
	if in.IdentityVerified {
		score += identityPoints
	}
	if in.PhoneVerified {
		score += phonePoints
	}
	if in.EmailVerified {
		score += emailPoints
	}
	return score
}

// reviewScore scales the average rating to 20 points and adds a volume
// bonus of one point per ten reviews, capped at 5. A user with no reviews
// scores zero here.
func reviewScore(in Input) int {
	if in.TotalReviews <= 0 {
		return 0
	}
	rating := in.AverageRating / 5.0 * maxReviewPoints
	bonus := math.Min(float64(in.TotalReviews)/10.0, maxVolumeBonus)
	return int(math.Round(rating + bonus))
}

func bookingScore(completed int) int {
	score := completed * pointsPerBooking
	if score > maxBookingPoints {
		score = maxBookingPoints
	}
	if score < 0 {
		score = 0
	}
	return score
}

// responsivenessScore is a step function, deliberately not linear.
// A non-positive value means no response has ever been measured and scores
// nothing, so brand-new accounts do not start with free points.
func responsivenessScore(hours float64) int {
	switch {
	case hours <= 0:
		return 0
	case hours <= 6:
		return 15
	case hours <= 12:
		return 12
	case hours <= 24:
		return 10
	default:
		return 5
	}
}

func accountAgeScore(days int) int {
	score := float64(days) / daysPerAccountYear * maxAccountAgePts
	return int(math.Round(math.Min(score, maxAccountAgePts)))
}

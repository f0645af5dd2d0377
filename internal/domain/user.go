package domain

import "time"

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// VerificationProfile holds the per-user verification flags feeding the
// trust score. The score itself is derived and never stored authoritatively.
type VerificationProfile struct {
	UserID           int32      `json:"user_id"`
	IdentityVerified bool       `json:"identity_verified"`
	PhoneVerified    bool       `json:"phone_verified"`
	EmailVerified    bool       `json:"email_verified"`
	AddressVerified  bool       `json:"address_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

// ReviewStats is the aggregate the trust model reads; individual reviews
// stay in the store.
type ReviewStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

type Review struct {
	ID         int32     `json:"id"`
	BookingID  int32     `json:"booking_id"`
	ReviewerID int32     `json:"reviewer_id"`
	RevieweeID int32     `json:"reviewee_id"`
	Rating     int32     `json:"rating"` // 1..5
	Comment    string    `json:"comment,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}

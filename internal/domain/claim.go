package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusDisputed ClaimStatus = "disputed"
	ClaimStatusResolved ClaimStatus = "resolved"
)

type ClaimResolution string

const (
	ClaimResolutionUpheld    ClaimResolution = "upheld"    // deposit goes to the owner
	ClaimResolutionDismissed ClaimResolution = "dismissed" // deposit refunds to the renter
)

// DamageClaim may only exist for a booking that has a return inspection.
type DamageClaim struct {
	ID            int32            `json:"id"`
	BookingID     int32            `json:"booking_id"`
	ClaimantID    int32            `json:"claimant_id"`
	Description   string           `json:"description"`
	EstimatedCost decimal.Decimal  `json:"estimated_cost"`
	Evidence      []string         `json:"evidence,omitempty"`
	Status        ClaimStatus      `json:"status"`
	Resolution    *ClaimResolution `json:"resolution,omitempty"`
	CreatedOn     time.Time        `json:"created_on"`
	UpdatedOn     time.Time        `json:"updated_on"`
}

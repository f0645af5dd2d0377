package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EquipmentCondition string

const (
	EquipmentConditionExcellent EquipmentCondition = "excellent"
	EquipmentConditionGood      EquipmentCondition = "good"
	EquipmentConditionFair      EquipmentCondition = "fair"
	EquipmentConditionDamaged   EquipmentCondition = "damaged"
)

type Equipment struct {
	ID          int32              `json:"id"`
	OwnerID     int32              `json:"owner_id"`
	Owner       *User              `json:"owner,omitempty"` // populated when fetching details
	Name        string             `json:"name"`
	Description string             `json:"description"`
	DailyRate   decimal.Decimal    `json:"daily_rate"`
	Condition   EquipmentCondition `json:"condition"`
	// At most one of the two deposit fields is honored: a fixed amount wins
	// over a percentage when both are configured.
	DamageDepositAmount     *decimal.Decimal `json:"damage_deposit_amount,omitempty"`
	DamageDepositPercentage *decimal.Decimal `json:"damage_deposit_percentage,omitempty"`
	CreatedOn               time.Time        `json:"created_on"`
	UpdatedOn               time.Time        `json:"updated_on"`
}

// DepositFor resolves the security deposit for a rental subtotal.
// A fixed amount takes precedence; a percentage is applied to the subtotal
// and rounded to cents. No configuration means no deposit.
func (e *Equipment) DepositFor(subtotal decimal.Decimal) decimal.Decimal {
	if e.DamageDepositAmount != nil {
		return e.DamageDepositAmount.Round(2)
	}
	if e.DamageDepositPercentage != nil {
		return subtotal.Mul(e.DamageDepositPercentage.Div(decimal.NewFromInt(100))).Round(2)
	}
	return decimal.Zero
}

// AvailabilitySlot is a sparse per-date override. Absence of a slot means
// the equipment is available at its base daily rate on that date.
type AvailabilitySlot struct {
	EquipmentID int32            `json:"equipment_id"`
	Date        time.Time        `json:"date"` // calendar date, midnight UTC
	IsBlocked   bool             `json:"is_blocked"`
	CustomRate  *decimal.Decimal `json:"custom_rate,omitempty"`
}

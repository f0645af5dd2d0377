package domain

import "time"

type InspectionType string

const (
	InspectionTypePickup InspectionType = "pickup"
	InspectionTypeReturn InspectionType = "return"
)

// ConditionLevel is an ordered condition scale. Comparisons go through
// Ordinal so "strictly worse" has a single definition.
type ConditionLevel string

const (
	ConditionGood    ConditionLevel = "good"
	ConditionFair    ConditionLevel = "fair"
	ConditionDamaged ConditionLevel = "damaged"
)

// Ordinal maps the scale to comparable integers: good=3, fair=2, damaged=1.
// Unknown levels map to 0 and never register as a baseline.
func (c ConditionLevel) Ordinal() int {
	switch c {
	case ConditionGood:
		return 3
	case ConditionFair:
		return 2
	case ConditionDamaged:
		return 1
	}
	return 0
}

type ChecklistItem struct {
	Item   string         `json:"item"`
	Status ConditionLevel `json:"status"`
	Note   string         `json:"note,omitempty"`
}

// Inspection records equipment condition at handoff. At most one exists
// per (booking, type).
type Inspection struct {
	ID        int32           `json:"id"`
	BookingID int32           `json:"booking_id"`
	Type      InspectionType  `json:"inspection_type"`
	Checklist []ChecklistItem `json:"checklist"`
	Photos    []string        `json:"photos,omitempty"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	CreatedOn time.Time       `json:"created_on"`
}

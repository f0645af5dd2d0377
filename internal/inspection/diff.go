// Package inspection compares pickup and return condition checklists to
// detect per-item degradation.
package inspection

import "gearshare-backend/internal/domain"

type Degradation struct {
	Item string                `json:"item"`
	From domain.ConditionLevel `json:"from"`
	To   domain.ConditionLevel `json:"to"`
}

type DiffResult struct {
	HasDegraded   bool          `json:"has_degraded"`
	DegradedItems []Degradation `json:"degraded_items"`
}

// Diff walks the return checklist and flags every item whose condition is
// strictly worse than its pickup baseline. Items present only at return
// have no baseline and are never flagged: absence of pickup data cannot
// imply damage.
func Diff(pickup, ret []domain.ChecklistItem) DiffResult {
	baseline := make(map[string]domain.ConditionLevel, len(pickup))
	for _, item := range pickup {
		baseline[item.Item] = item.Status
	}

	var degraded []Degradation
	for _, item := range ret {
		from, ok := baseline[item.Item]
		if !ok {
			continue
		}
		if item.Status.Ordinal() < from.Ordinal() {
			degraded = append(degraded, Degradation{Item: item.Item, From: from, To: item.Status})
		}
	}

	return DiffResult{HasDegraded: len(degraded) > 0, DegradedItems: degraded}
}

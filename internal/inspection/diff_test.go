package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func item(name string, status domain.ConditionLevel) domain.ChecklistItem {
	return domain.ChecklistItem{Item: name, Status: status}
}

func TestDiffFlagsDegradation(t *testing.T) {
	pickup := []domain.ChecklistItem{
		item("Screen", domain.ConditionGood),
		item("Body", domain.ConditionGood),
	}
	ret := []domain.ChecklistItem{
		item("Screen", domain.ConditionDamaged),
		item("Body", domain.ConditionGood),
	}

	result := Diff(pickup, ret)
	assert.True(t, result.HasDegraded)
	assert.Len(t, result.DegradedItems, 1)
	assert.Equal(t, "Screen", result.DegradedItems[0].Item)
	assert.Equal(t, domain.ConditionGood, result.DegradedItems[0].From)
	assert.Equal(t, domain.ConditionDamaged, result.DegradedItems[0].To)
}

func TestDiffCleanReturn(t *testing.T) {
	checklist := []domain.ChecklistItem{
		item("Screen", domain.ConditionFair),
		item("Body", domain.ConditionGood),
	}
	result := Diff(checklist, checklist)
	assert.False(t, result.HasDegraded)
	assert.Empty(t, result.DegradedItems)
}

func TestDiffImprovementNotFlagged(t *testing.T) {
	pickup := []domain.ChecklistItem{item("Lens", domain.ConditionFair)}
	ret := []domain.ChecklistItem{item("Lens", domain.ConditionGood)}
	result := Diff(pickup, ret)
	assert.False(t, result.HasDegraded)
}

func TestDiffReturnOnlyItemNeverFlagged(t *testing.T) {
	// No pickup baseline means no degradation claim, even when the return
	// marks the item damaged.
	pickup := []domain.ChecklistItem{item("Body", domain.ConditionGood)}
	ret := []domain.ChecklistItem{
		item("Body", domain.ConditionGood),
		item("Tripod", domain.ConditionDamaged),
	}
	result := Diff(pickup, ret)
	assert.False(t, result.HasDegraded)
}

func TestDiffPickupOnlyItemIgnored(t *testing.T) {
	pickup := []domain.ChecklistItem{
		item("Body", domain.ConditionGood),
		item("Strap", domain.ConditionGood),
	}
	ret := []domain.ChecklistItem{item("Body", domain.ConditionGood)}
	result := Diff(pickup, ret)
	assert.False(t, result.HasDegraded)
}

func TestDiffMultipleDegradations(t *testing.T) {
	pickup := []domain.ChecklistItem{
		item("Screen", domain.ConditionGood),
		item("Body", domain.ConditionGood),
		item("Lens", domain.ConditionFair),
	}
	ret := []domain.ChecklistItem{
		item("Screen", domain.ConditionFair),
		item("Body", domain.ConditionDamaged),
		item("Lens", domain.ConditionDamaged),
	}
	result := Diff(pickup, ret)
	assert.True(t, result.HasDegraded)
	assert.Len(t, result.DegradedItems, 3)
}

func TestDiffEmptyChecklists(t *testing.T) {
	assert.False(t, Diff(nil, nil).HasDegraded)
	assert.False(t, Diff(nil, []domain.ChecklistItem{item("X", domain.ConditionDamaged)}).HasDegraded)
}

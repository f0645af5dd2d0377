package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare-backend/internal/domain"
)

type fakeStore struct {
	overlapping []domain.Booking
	blocked     []time.Time
	overlapErr  error
	blockedErr  error

	gotExclude *int32
}

func (f *fakeStore) FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error) {
	f.gotExclude = excludeBookingID
	return f.overlapping, f.overlapErr
}

func (f *fakeStore) FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error) {
	return f.blocked, f.blockedErr
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func types(conflicts []Conflict) []ConflictType {
	out := make([]ConflictType, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.Type)
	}
	return out
}

func TestCheckConflictsCleanRange(t *testing.T) {
	checker := NewChecker(&fakeStore{})
	conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), nil)
	assert.Empty(t, conflicts)
}

func TestCheckConflictsDurationRules(t *testing.T) {
	checker := NewChecker(&fakeStore{})

	t.Run("below minimum", func(t *testing.T) {
		conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-01").Add(12*time.Hour), nil)
		assert.Contains(t, types(conflicts), ConflictMinimumDays)
	})
	t.Run("above maximum", func(t *testing.T) {
		conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-10-15"), nil)
		assert.Contains(t, types(conflicts), ConflictMaximumDays)
	})
	t.Run("at boundaries", func(t *testing.T) {
		assert.Empty(t, checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-02"), nil))
		assert.Empty(t, checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-10-01"), nil))
	})
}

func TestCheckConflictsReportsEveryOverlap(t *testing.T) {
	store := &fakeStore{
		overlapping: []domain.Booking{
			{ID: 7, Status: domain.BookingStatusApproved},
			{ID: 9, Status: domain.BookingStatusPending},
		},
	}
	checker := NewChecker(store)

	conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), nil)
	require.Len(t, conflicts, 2)
	for i, c := range conflicts {
		assert.Equal(t, ConflictOverlap, c.Type)
		require.NotNil(t, c.BookingID)
		assert.Equal(t, store.overlapping[i].ID, *c.BookingID)
	}
}

func TestCheckConflictsAllRulesIndependent(t *testing.T) {
	store := &fakeStore{
		overlapping: []domain.Booking{{ID: 7, Status: domain.BookingStatusActive}},
		blocked:     []time.Time{date("2026-09-02")},
	}
	checker := NewChecker(store)

	// A sub-minimum range still reports the overlap and the blocked date.
	conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-01").Add(time.Hour), nil)
	got := types(conflicts)
	assert.Contains(t, got, ConflictMinimumDays)
	assert.Contains(t, got, ConflictOverlap)
	assert.Contains(t, got, ConflictUnavailable)
}

func TestCheckConflictsFailsClosed(t *testing.T) {
	t.Run("overlap query error", func(t *testing.T) {
		checker := NewChecker(&fakeStore{overlapErr: errors.New("connection refused")})
		conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), nil)
		assert.Contains(t, types(conflicts), ConflictUnavailable,
			"a store failure must read as unavailable, never as available")
	})
	t.Run("blocked query error", func(t *testing.T) {
		checker := NewChecker(&fakeStore{blockedErr: errors.New("connection refused")})
		conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), nil)
		assert.Contains(t, types(conflicts), ConflictUnavailable)
	})
}

func TestCheckConflictsBlockedDates(t *testing.T) {
	store := &fakeStore{blocked: []time.Time{date("2026-09-03"), date("2026-09-04")}}
	checker := NewChecker(store)

	conflicts := checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), nil)
	require.Len(t, conflicts, 2)
	assert.Equal(t, ConflictUnavailable, conflicts[0].Type)
}

func TestCheckConflictsPassesExclusion(t *testing.T) {
	store := &fakeStore{}
	checker := NewChecker(store)

	exclude := int32(42)
	checker.CheckConflicts(context.Background(), 1, date("2026-09-01"), date("2026-09-06"), &exclude)
	require.NotNil(t, store.gotExclude)
	assert.Equal(t, int32(42), *store.gotExclude)
}

package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/weekwise/weekwise/storage"
	"github.com/weekwise/weekwise/store"
	"github.com/weekwise/weekwise/types"
)

// fixedNow gives the stats a deterministic reference clock.
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newClockedStore(t *testing.T, tasks []types.Task) *store.Store {
	t.Helper()
	adapter := storage.NewMemoryAdapter()
	adapter.Tasks = tasks
	return store.New(adapter, store.WithTimeFunc(func() time.Time { return fixedNow }))
}

func TestCalculateStats(t *testing.T) {
	twoDaysAgo := fixedNow.Add(-48 * time.Hour)
	tenDaysAgo := fixedNow.Add(-10 * 24 * time.Hour)
	yesterday := fixedNow.Add(-24 * time.Hour)

	tasks := []types.Task{
		{
			ID: "1", Title: "Quarterly report", DueDate: "2026-03-01", Duration: 4,
			Tag: types.TagUrgentImportant, CreatedAt: tenDaysAgo, UpdatedAt: tenDaysAgo,
		},
		{
			ID: "2", Title: "Plan sprint", DueDate: "2026-03-20", Duration: 2,
			Tag: types.TagImportantNotUrgent, CreatedAt: twoDaysAgo, UpdatedAt: twoDaysAgo,
		},
		{
			ID: "3", Title: "Water plants", DueDate: "2026-03-09T08:00", Duration: 0.5,
			Tag: "Chores", Completed: true, CreatedAt: twoDaysAgo, UpdatedAt: yesterday,
			CompletedAt: &yesterday,
		},
		{
			// Completed long ago: counts as completed, but not this week.
			ID: "4", Title: "Old chore", DueDate: "2026-02-20", Duration: 3,
			Tag: "Chores", Completed: true, CreatedAt: tenDaysAgo, UpdatedAt: tenDaysAgo,
			CompletedAt: &tenDaysAgo,
		},
	}

	s := newClockedStore(t, tasks)
	got := s.CalculateStats()

	want := types.Stats{
		TotalTasks:                4,
		TotalDuration:             9.5,
		TopTag:                    "Chores",
		TasksThisWeek:             2,
		OverdueTasks:              3, // 1, 3 and 4 are due before now
		CompletedTasks:            2,
		CompletedDurationThisWeek: 0.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	t.Run("idempotent", func(t *testing.T) {
		again := s.CalculateStats()
		if diff := cmp.Diff(got, again); diff != "" {
			t.Errorf("second computation differs (-first +second):\n%s", diff)
		}
	})
}

func TestTopTagTieBreaksOnInsertionOrder(t *testing.T) {
	mk := func(id, tag string) types.Task {
		return types.Task{
			ID: id, Title: "t" + id, DueDate: "2099-01-01", Duration: 1, Tag: tag,
			CreatedAt: fixedNow, UpdatedAt: fixedNow,
		}
	}
	s := newClockedStore(t, []types.Task{
		mk("1", "Reading"), mk("2", "Writing"), mk("3", "Reading"), mk("4", "Writing"),
	})
	if got := s.CalculateStats().TopTag; got != "Reading" {
		t.Errorf("tie should break to first-encountered max, got %q", got)
	}
}

func TestCompletedFallsBackToUpdatedAt(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	// Legacy import: completed with no completion timestamp.
	s := newClockedStore(t, []types.Task{{
		ID: "1", Title: "Imported", DueDate: "2026-03-01", Duration: 2,
		Tag: "Legacy", Completed: true, CreatedAt: yesterday, UpdatedAt: yesterday,
	}})
	got := s.CalculateStats()
	if got.CompletedDurationThisWeek != 2 {
		t.Errorf("expected fallback to updatedAt to count 2h, got %v", got.CompletedDurationThisWeek)
	}
}

func TestUpdateCapStatusTiers(t *testing.T) {
	cases := []struct {
		achieved   float64
		percentage int
		status     string
		overCap    bool
	}{
		{32, 80, types.CapStatusSuccess, false},
		{36, 90, types.CapStatusWarning, false},
		{40, 100, types.CapStatusWarning, false},
		{44, 110, types.CapStatusSuccess, true},
		{0, 0, types.CapStatusSuccess, false},
	}

	s := newClockedStore(t, nil) // default cap of 40 hours
	for _, c := range cases {
		got := s.UpdateCapStatus(c.achieved)
		if got.Percentage != c.percentage || got.Status != c.status || got.IsOverCap != c.overCap {
			t.Errorf("achieved=%v: got pct=%d status=%s overCap=%v, want pct=%d status=%s overCap=%v",
				c.achieved, got.Percentage, got.Status, got.IsOverCap, c.percentage, c.status, c.overCap)
		}
		if got.Goal != 40 {
			t.Errorf("achieved=%v: goal=%v, want default 40", c.achieved, got.Goal)
		}
	}
}

func TestUpdateCapStatusDefaultsToTotalDuration(t *testing.T) {
	s := newClockedStore(t, []types.Task{
		{ID: "1", Title: "a", DueDate: "2099-01-01", Duration: 30, Tag: "X", CreatedAt: fixedNow, UpdatedAt: fixedNow},
		{ID: "2", Title: "b", DueDate: "2099-01-01", Duration: 6, Tag: "X", CreatedAt: fixedNow, UpdatedAt: fixedNow},
	})
	got := s.UpdateCapStatus()
	if got.Achieved != 36 {
		t.Errorf("expected total duration 36 as default achieved, got %v", got.Achieved)
	}
	if got.Status != types.CapStatusWarning {
		t.Errorf("36/40 should be warning, got %s", got.Status)
	}
}

func TestCapRespectsMinutesUnit(t *testing.T) {
	adapter := storage.NewMemoryAdapter()
	settings := types.DefaultSettings()
	settings.TimeUnit = types.UnitMinutes
	settings.DurationCap = 1200 // 20 hours
	adapter.Settings = &settings

	s := store.New(adapter, store.WithTimeFunc(func() time.Time { return fixedNow }))
	got := s.UpdateCapStatus(10)
	if got.Goal != 20 {
		t.Errorf("expected goal normalized to 20 hours, got %v", got.Goal)
	}
	if got.Percentage != 50 {
		t.Errorf("expected 50%%, got %d", got.Percentage)
	}
}

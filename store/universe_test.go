package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/weekwise/weekwise/store"
	"github.com/weekwise/weekwise/testutil"
	"github.com/weekwise/weekwise/types"
)

// TestUniverseStats pins the derived statistics for the shared fixture
// universe, which exercises every bucket at once: priority spread,
// completion inside and outside the weekly window, overdue tasks, and
// the legacy completed-without-timestamp fallback.
func TestUniverseStats(t *testing.T) {
	adapter, _ := testutil.LoadAdapter(t)
	st := store.New(adapter, store.WithTimeFunc(func() time.Time { return testutil.Now }))

	got := st.CalculateStats()
	want := types.Stats{
		TotalTasks:    7,
		TotalDuration: 19,
		// Important but Not Urgent reaches its maximum count before
		// Chores does in insertion order.
		TopTag:         types.TagImportantNotUrgent,
		TasksThisWeek:  3,
		OverdueTasks:   3,
		CompletedTasks: 3,
		// WriteReport (3h, completed yesterday) plus LegacyImport (2h,
		// UpdatedAt fallback); GroceryRun finished before the window.
		CompletedDurationThisWeek: 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	capStatus := st.Cap()
	if capStatus.Goal != 40 || capStatus.Status != types.CapStatusSuccess {
		t.Errorf("cap = %+v", capStatus)
	}
	if capStatus.Achieved != want.CompletedDurationThisWeek {
		t.Errorf("cap tracks completed duration, got %.1f", capStatus.Achieved)
	}
}

func TestUniverseLifecycle(t *testing.T) {
	adapter, u := testutil.LoadAdapter(t)
	st := store.New(adapter, store.WithTimeFunc(func() time.Time { return testutil.Now }))

	if !st.DeleteTask(u.ReadNovel.ID) {
		t.Fatalf("delete failed: %s", st.Err())
	}
	if st.Stats().TotalTasks != 6 {
		t.Errorf("stats not recomputed after delete: %+v", st.Stats())
	}

	if !st.Undo() {
		t.Fatal("undo failed")
	}
	if len(st.Tasks()) != 7 {
		t.Errorf("undo did not restore the collection, %d tasks", len(st.Tasks()))
	}
}

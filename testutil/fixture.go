// Package testutil provides the shared test fixture universe: a small
// task collection exercising every interesting axis at once (priority
// tags, completion states, due-date buckets, durations) plus helpers for
// wiring it into an adapter.
package testutil

import (
	"testing"
	"time"

	"github.com/weekwise/weekwise/storage"
	"github.com/weekwise/weekwise/types"
)

// Now is the fixed reference time the universe is built around. Tests
// that derive stats or buckets should pass this as "now".
var Now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// UniverseData provides typed access to the fixture tasks.
type UniverseData struct {
	// Priority spread
	WriteReport  types.Task // Urgent & Important, completed this week
	TeamMeeting  types.Task // Important but Not Urgent, due soon
	FixPrinter   types.Task // Urgent but Not Important, overdue
	GroceryRun   types.Task // free-form tag, completed before this week
	ReadNovel    types.Task // free-form tag, far future
	PlanQuarter  types.Task // Important but Not Urgent, created this week
	LegacyImport types.Task // completed with no CompletedAt (legacy fallback)

	// All fixture tasks in insertion order.
	Tasks []types.Task

	// ByID for direct lookup.
	ByID map[string]types.Task
}

// LoadUniverse builds the fixture universe.
func LoadUniverse(t *testing.T) *UniverseData {
	t.Helper()

	completedNow := Now.Add(-24 * time.Hour)
	completedOld := Now.Add(-10 * 24 * time.Hour)

	u := &UniverseData{
		WriteReport: types.Task{
			ID: "fx-report", Title: "Write quarterly report",
			DueDate: "2026-06-20", Duration: 3, Tag: types.TagUrgentImportant,
			Description: "Figures from finance, narrative from product",
			Completed:   true, CompletedAt: &completedNow,
			CreatedAt: Now.Add(-5 * 24 * time.Hour), UpdatedAt: completedNow,
		},
		TeamMeeting: types.Task{
			ID: "fx-meeting", Title: "Prepare team meeting",
			DueDate: "2026-06-17T09:30", Duration: 1, Tag: types.TagImportantNotUrgent,
			CreatedAt: Now.Add(-2 * 24 * time.Hour), UpdatedAt: Now.Add(-2 * 24 * time.Hour),
		},
		FixPrinter: types.Task{
			ID: "fx-printer", Title: "Fix the office printer",
			DueDate: "2026-06-10", Duration: 0.5, Tag: types.TagUrgentNotImportant,
			CreatedAt: Now.Add(-20 * 24 * time.Hour), UpdatedAt: Now.Add(-20 * 24 * time.Hour),
		},
		GroceryRun: types.Task{
			ID: "fx-grocery", Title: "Grocery run",
			DueDate: "2026-06-05", Duration: 0.5, Tag: "Chores",
			Completed: true, CompletedAt: &completedOld,
			CreatedAt: Now.Add(-12 * 24 * time.Hour), UpdatedAt: completedOld,
		},
		ReadNovel: types.Task{
			ID: "fx-novel", Title: "Read the new novel",
			DueDate: "2026-08-30", Duration: 8, Tag: "Leisure",
			CreatedAt: Now.Add(-30 * 24 * time.Hour), UpdatedAt: Now.Add(-30 * 24 * time.Hour),
		},
		PlanQuarter: types.Task{
			ID: "fx-plan", Title: "Plan next quarter",
			DueDate: "2026-07-01", Duration: 4, Tag: types.TagImportantNotUrgent,
			CreatedAt: Now.Add(-3 * 24 * time.Hour), UpdatedAt: Now.Add(-3 * 24 * time.Hour),
		},
		LegacyImport: types.Task{
			ID: "fx-legacy", Title: "Migrate old archive",
			DueDate: "2026-06-12", Duration: 2, Tag: "Chores",
			Completed: true, // no CompletedAt: completion time falls back to UpdatedAt
			CreatedAt: Now.Add(-40 * 24 * time.Hour), UpdatedAt: Now.Add(-2 * 24 * time.Hour),
		},
	}

	u.Tasks = []types.Task{
		u.WriteReport, u.TeamMeeting, u.FixPrinter, u.GroceryRun,
		u.ReadNovel, u.PlanQuarter, u.LegacyImport,
	}
	u.ByID = make(map[string]types.Task, len(u.Tasks))
	for _, task := range u.Tasks {
		u.ByID[task.ID] = task
	}
	return u
}

// LoadAdapter returns a memory adapter preloaded with the universe and
// default settings.
func LoadAdapter(t *testing.T) (*storage.MemoryAdapter, *UniverseData) {
	t.Helper()
	u := LoadUniverse(t)
	adapter := storage.NewMemoryAdapter()
	adapter.SaveTasks(types.CloneTasks(u.Tasks))
	adapter.SaveSettings(types.DefaultSettings())
	return adapter, u
}

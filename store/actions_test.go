package store_test

import (
	"testing"
	"time"

	"github.com/weekwise/weekwise/storage"
	"github.com/weekwise/weekwise/store"
	"github.com/weekwise/weekwise/types"
)

func boolPtr(b bool) *bool { return &b }

func TestAddTaskLifecycle(t *testing.T) {
	adapter := storage.NewMemoryAdapter()
	s := store.New(adapter)

	ok := s.AddTask(types.Task{
		Title:    "Read Chapter 4",
		DueDate:  "2099-01-01",
		Duration: 2,
		Tag:      "Homework",
	})
	if !ok {
		t.Fatalf("AddTask failed: %s", s.Err())
	}

	tasks := s.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.ID == "" {
		t.Error("task should have an assigned ID")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("timestamps should be assigned")
	}
	if len(adapter.Tasks) != 1 {
		t.Error("task was not persisted")
	}

	// Mark completed: completedAt must be set and weekly stats updated.
	if !s.UpdateTask(task.ID, store.TaskPatch{Completed: boolPtr(true)}) {
		t.Fatalf("UpdateTask failed: %s", s.Err())
	}
	updated := s.Tasks()[0]
	if !updated.Completed || updated.CompletedAt == nil {
		t.Errorf("completed=true must imply completedAt set, got %+v", updated)
	}
	if got := s.Stats().CompletedTasks; got != 1 {
		t.Errorf("stats.CompletedTasks = %d, want 1", got)
	}

	// Un-complete: completedAt must be cleared.
	if !s.UpdateTask(task.ID, store.TaskPatch{Completed: boolPtr(false)}) {
		t.Fatalf("UpdateTask failed: %s", s.Err())
	}
	if got := s.Tasks()[0]; got.Completed || got.CompletedAt != nil {
		t.Errorf("completed=false must clear completedAt, got %+v", got)
	}
}

func TestAddTaskValidationFailure(t *testing.T) {
	s, adapter := newTestStore(t)

	if s.AddTask(types.Task{Title: " bad title ", DueDate: "2099-13-01", Duration: 0, Tag: ""}) {
		t.Fatal("expected AddTask to fail")
	}

	state := s.GetState()
	if state.Err == "" {
		t.Error("expected error surfaced in state")
	}
	for _, field := range []string{"title", "dueDate", "duration", "tag"} {
		if _, ok := state.FormErrors[field]; !ok {
			t.Errorf("expected form error for %s, got %v", field, state.FormErrors)
		}
	}
	if len(state.Tasks) != 0 || len(adapter.Tasks) != 0 {
		t.Error("invalid task must not be stored or persisted")
	}
}

func TestAddTaskPersistenceFailureKeepsState(t *testing.T) {
	s, adapter := newTestStore(t)
	adapter.FailWrites = true

	if s.AddTask(types.Task{Title: "Valid", DueDate: "2099-01-01", Duration: 1, Tag: "X"}) {
		t.Fatal("expected AddTask to fail on write error")
	}
	if len(s.Tasks()) != 0 {
		t.Error("write-through: failed persistence must not advance in-memory state")
	}
	if s.Err() == "" {
		t.Error("expected generic error surfaced")
	}

	// Recovery: once the adapter works again the same action succeeds and
	// the stale error is cleared.
	adapter.FailWrites = false
	if !s.AddTask(types.Task{Title: "Valid", DueDate: "2099-01-01", Duration: 1, Tag: "X"}) {
		t.Fatal("expected AddTask to succeed")
	}
	if s.Err() != "" {
		t.Errorf("error should be cleared after success, got %q", s.Err())
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if s.UpdateTask("no-such-id", store.TaskPatch{Completed: boolPtr(true)}) {
		t.Fatal("expected not-found failure")
	}
	if s.Err() == "" {
		t.Error("expected not-found error in state")
	}
}

func TestUpdateTaskRevalidatesMergedRecord(t *testing.T) {
	s, _ := newTestStore(t)
	if !s.AddTask(types.Task{Title: "Fine", DueDate: "2099-01-01", Duration: 1, Tag: "X"}) {
		t.Fatal("setup AddTask failed")
	}
	id := s.Tasks()[0].ID

	bad := "2099-02-30"
	if s.UpdateTask(id, store.TaskPatch{DueDate: &bad}) {
		t.Fatal("expected merged-record validation to fail")
	}
	if got := s.Tasks()[0].DueDate; got != "2099-01-01" {
		t.Errorf("failed update must leave record unchanged, got %q", got)
	}
}

func TestDeleteTask(t *testing.T) {
	s, adapter := newTestStore(t)
	if !s.AddTask(types.Task{Title: "Doomed", DueDate: "2099-01-01", Duration: 1, Tag: "X"}) {
		t.Fatal("setup AddTask failed")
	}
	id := s.Tasks()[0].ID

	if s.DeleteTask("missing") {
		t.Error("deleting a missing id should fail")
	}
	if !s.DeleteTask(id) {
		t.Fatalf("DeleteTask failed: %s", s.Err())
	}
	if len(s.Tasks()) != 0 || len(adapter.Tasks) != 0 {
		t.Error("task should be removed from state and storage")
	}
	if got := s.Stats().TotalTasks; got != 0 {
		t.Errorf("stats not recomputed after delete: %d", got)
	}
}

func TestSaveSettingsConvertsCapOnUnitChange(t *testing.T) {
	s, _ := newTestStore(t)

	next := s.Settings()
	next.TimeUnit = types.UnitMinutes
	if !s.SaveSettings(next) {
		t.Fatalf("SaveSettings failed: %s", s.Err())
	}
	got := s.Settings()
	if got.DurationCap != 40*60 {
		t.Errorf("cap should convert to minutes, got %v", got.DurationCap)
	}

	// Changing the cap together with the unit keeps the entered value.
	next = got
	next.TimeUnit = types.UnitHours
	next.DurationCap = 20
	if !s.SaveSettings(next) {
		t.Fatalf("SaveSettings failed: %s", s.Err())
	}
	if got := s.Settings().DurationCap; got != 20 {
		t.Errorf("explicit cap should be kept, got %v", got)
	}
}

func TestReplaceTasksAssignsMissingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Now()
	ok := s.ReplaceTasks([]types.Task{
		{Title: "Imported", DueDate: "2099-01-01", Duration: 1, Tag: "X", CreatedAt: now, UpdatedAt: now},
	})
	if !ok {
		t.Fatalf("ReplaceTasks failed: %s", s.Err())
	}
	if got := s.Tasks()[0].ID; got == "" {
		t.Error("imported task without id should receive one")
	}
}

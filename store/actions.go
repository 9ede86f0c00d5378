package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/weekwise/weekwise/internal/validation"
	"github.com/weekwise/weekwise/types"
)

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	DueDate     *string
	Duration    *float64
	Tag         *string
	Description *string
	Completed   *bool
}

// AddTask validates and appends a new task. On validation failure the
// error and field errors are surfaced in state and false is returned; on
// persistence failure the in-memory collection is left unchanged. The
// task's ID and timestamps are assigned here.
func (s *Store) AddTask(input types.Task) bool {
	res := validation.ValidateTask(input)
	if !res.IsValid {
		s.failValidation(res.Errors)
		return false
	}
	for _, w := range res.Warnings {
		s.logger.Info("task warning", "title", input.Title, "warning", w)
	}

	now := s.timeFunc()
	task := input.Clone()
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	next := append(s.Tasks(), task)
	if !s.adapter.SaveTasks(next) {
		s.failGeneric("failed to save tasks")
		return false
	}

	s.commitTasks(next)
	return true
}

// UpdateTask merges a patch onto an existing task, applies the
// completed-at transition rule, re-validates the merged record, and
// persists the replaced collection.
func (s *Store) UpdateTask(id string, patch TaskPatch) bool {
	tasks := s.Tasks()
	idx := -1
	for i, t := range tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.failGeneric(fmt.Sprintf("task not found: %s", id))
		return false
	}

	now := s.timeFunc()
	merged := tasks[idx].Clone()
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.DueDate != nil {
		merged.DueDate = *patch.DueDate
	}
	if patch.Duration != nil {
		merged.Duration = *patch.Duration
	}
	if patch.Tag != nil {
		merged.Tag = *patch.Tag
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Completed != nil && *patch.Completed != merged.Completed {
		merged.Completed = *patch.Completed
		if merged.Completed {
			merged.CompletedAt = &now
		} else {
			merged.CompletedAt = nil
		}
	}
	merged.UpdatedAt = now

	res := validation.ValidateTask(merged)
	if !res.IsValid {
		s.failValidation(res.Errors)
		return false
	}

	tasks[idx] = merged
	if !s.adapter.SaveTasks(tasks) {
		s.failGeneric("failed to save tasks")
		return false
	}

	s.commitTasks(tasks)
	return true
}

// DeleteTask removes a task by ID. An unchanged collection length means
// the ID was not found.
func (s *Store) DeleteTask(id string) bool {
	tasks := s.Tasks()
	next := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(tasks) {
		s.failGeneric(fmt.Sprintf("task not found: %s", id))
		return false
	}
	if !s.adapter.SaveTasks(next) {
		s.failGeneric("failed to save tasks")
		return false
	}

	s.commitTasks(next)
	return true
}

// ReplaceTasks bulk-replaces the whole collection, as used by import.
// Records with missing IDs receive fresh ones; completed records without
// a completion timestamp are left as-is and fall back to UpdatedAt in the
// weekly accounting.
func (s *Store) ReplaceTasks(tasks []types.Task) bool {
	next := types.CloneTasks(tasks)
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = uuid.New().String()
		}
	}
	if !s.adapter.SaveTasks(next) {
		s.failGeneric("failed to save tasks")
		return false
	}

	s.commitTasks(next)
	return true
}

// SaveSettings overwrites the settings record wholesale. When the time
// unit changes and the cap value was not edited in the same save, the
// cap is converted so it keeps the same real-world meaning in the new
// unit.
func (s *Store) SaveSettings(next types.Settings) bool {
	current := s.Settings()
	if next.TimeUnit != current.TimeUnit && next.DurationCap == current.DurationCap {
		switch {
		case current.TimeUnit == types.UnitHours && next.TimeUnit == types.UnitMinutes:
			next.DurationCap = current.DurationCap * 60
		case current.TimeUnit == types.UnitMinutes && next.TimeUnit == types.UnitHours:
			next.DurationCap = current.DurationCap / 60
		}
	}

	if !s.adapter.SaveSettings(next) {
		s.failGeneric("failed to save settings")
		return false
	}

	empty := ""
	s.SetState(Patch{Settings: &next, Err: &empty})
	s.CalculateStats()
	return true
}

// ClearAll wipes both the durable store and the in-memory collection.
func (s *Store) ClearAll() bool {
	if !s.adapter.ClearAll() {
		s.failGeneric("failed to clear storage")
		return false
	}
	defaults := types.DefaultSettings()
	var none []types.Task
	empty := ""
	s.SetState(Patch{Tasks: &none, Settings: &defaults, Err: &empty})
	s.CalculateStats()
	return true
}

// commitTasks installs a persisted collection, clears error surfaces, and
// recomputes derived statistics.
func (s *Store) commitTasks(tasks []types.Task) {
	empty := ""
	var noErrors map[string]string
	s.SetState(Patch{Tasks: &tasks, Err: &empty, FormErrors: &noErrors})
	s.CalculateStats()
}

func (s *Store) failValidation(errors map[string]string) {
	msg := "validation failed"
	s.SetStateNoHistory(Patch{Err: &msg, FormErrors: &errors})
}

func (s *Store) failGeneric(msg string) {
	s.logger.Warn("action failed", "error", msg)
	s.SetStateNoHistory(Patch{Err: &msg})
}

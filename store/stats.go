package store

import (
	"math"
	"time"

	"github.com/weekwise/weekwise/types"
)

// weekWindow is the trailing window used for "this week" statistics.
const weekWindow = 7 * 24 * time.Hour

// deriveStats computes all derived statistics from the task collection
// relative to now. It is a pure function: calling it twice on the same
// inputs yields identical output.
func deriveStats(tasks []types.Task, now time.Time) types.Stats {
	stats := types.Stats{TotalTasks: len(tasks)}
	weekStart := now.Add(-weekWindow)

	tagCounts := make(map[string]int)
	var topTag string
	var topCount int

	for _, t := range tasks {
		stats.TotalDuration += t.Duration

		// Ties break toward the first-encountered maximum in insertion
		// order, so only a strictly greater count replaces the leader.
		tagCounts[t.Tag]++
		if tagCounts[t.Tag] > topCount {
			topCount = tagCounts[t.Tag]
			topTag = t.Tag
		}

		if !t.CreatedAt.Before(weekStart) && !t.CreatedAt.After(now) {
			stats.TasksThisWeek++
		}

		if due, err := t.DueTime(); err == nil && due.Before(now) {
			stats.OverdueTasks++
		}

		if t.Completed {
			stats.CompletedTasks++
			done := t.CompletionTime()
			if !done.Before(weekStart) && !done.After(now) {
				stats.CompletedDurationThisWeek += t.Duration
			}
		}
	}

	stats.TopTag = topTag
	return stats
}

// deriveCapStatus evaluates the weekly goal for a given achieved amount
// in hours. Percentages above 100 report success: exceeding the goal is
// framed positively rather than as a distinct tier.
func deriveCapStatus(settings types.Settings, achieved float64) types.CapStatus {
	goal := settings.CapHours()
	pct := int(math.Round(achieved / goal * 100))

	status := types.CapStatusSuccess
	if pct > 80 && pct <= 100 {
		status = types.CapStatusWarning
	}

	return types.CapStatus{
		Goal:       goal,
		Achieved:   achieved,
		Percentage: pct,
		IsOverCap:  achieved > goal,
		Status:     status,
	}
}

// CalculateStats recomputes the derived statistics branch from the
// current task collection and refreshes the cap status from the
// completed-duration-this-week figure. Neither update is recorded in
// undo history: stats are caches, not user edits.
func (s *Store) CalculateStats() types.Stats {
	s.mu.Lock()
	tasks := types.CloneTasks(s.state.Tasks)
	settings := s.state.Settings
	s.mu.Unlock()

	stats := deriveStats(tasks, s.timeFunc())
	capStatus := deriveCapStatus(settings, stats.CompletedDurationThisWeek)
	s.SetStateNoHistory(Patch{Stats: &stats, Cap: &capStatus})
	return stats
}

// UpdateCapStatus recomputes the cap branch for an explicit achieved
// amount; with no argument the total scheduled duration is used.
func (s *Store) UpdateCapStatus(achieved ...float64) types.CapStatus {
	s.mu.Lock()
	settings := s.state.Settings
	total := s.state.Stats.TotalDuration
	s.mu.Unlock()

	amount := total
	if len(achieved) > 0 {
		amount = achieved[0]
	}
	capStatus := deriveCapStatus(settings, amount)
	s.SetStateNoHistory(Patch{Cap: &capStatus})
	return capStatus
}

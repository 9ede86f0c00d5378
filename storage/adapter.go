// Package storage provides persistence adapters for the task collection
// and settings record. Adapters are deliberately failure-silent on reads:
// absent or corrupt storage yields empty defaults, never an error, so the
// store can always start. Writes report success as a boolean; the store
// treats a failed write as a non-event and keeps its in-memory state.
package storage

import "github.com/weekwise/weekwise/types"

// Adapter is the durable key-value collaborator consumed by the store.
type Adapter interface {
	LoadTasks() []types.Task
	SaveTasks(tasks []types.Task) bool
	LoadSettings() types.Settings
	SaveSettings(settings types.Settings) bool
	ClearAll() bool
}

// MemoryAdapter is an in-process adapter used in tests and as a default
// when no durable backend is configured.
type MemoryAdapter struct {
	Tasks    []types.Task
	Settings *types.Settings

	// FailWrites makes every write report failure, for exercising the
	// store's write-through error path.
	FailWrites bool
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) LoadTasks() []types.Task {
	return types.CloneTasks(m.Tasks)
}

func (m *MemoryAdapter) SaveTasks(tasks []types.Task) bool {
	if m.FailWrites {
		return false
	}
	m.Tasks = types.CloneTasks(tasks)
	return true
}

func (m *MemoryAdapter) LoadSettings() types.Settings {
	if m.Settings == nil {
		return types.DefaultSettings()
	}
	return *m.Settings
}

func (m *MemoryAdapter) SaveSettings(settings types.Settings) bool {
	if m.FailWrites {
		return false
	}
	s := settings
	m.Settings = &s
	return true
}

func (m *MemoryAdapter) ClearAll() bool {
	if m.FailWrites {
		return false
	}
	m.Tasks = nil
	m.Settings = nil
	return true
}

// Package imports parses exported snapshot documents back into typed
// records. Parsing is lenient at the record level: a task that fails
// structural validation is dropped and reported, never fatal, so one bad
// record cannot poison a whole restore. Only a top-level decode failure
// aborts the import.
package imports

import (
	"encoding/json"
	"fmt"

	"github.com/weekwise/weekwise/types"
)

// Result summarizes an import attempt. Success reflects only the
// top-level decode; individual record failures are counted in Dropped and
// described in Errors. A nil Settings means the document carried none
// worth adopting and the caller should keep its current settings.
type Result struct {
	Success  bool
	Tasks    []types.Task
	Settings *types.Settings
	Imported int
	Dropped  int
	Errors   []string
}

// document mirrors the export layout but keeps records raw so each one can
// be validated independently.
type document struct {
	Version  string            `json:"version"`
	Tasks    []json.RawMessage `json:"tasks"`
	Settings json.RawMessage   `json:"settings"`
}

// Parse decodes an exported document. See Result for the failure model.
func Parse(data []byte) Result {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{
			Success: false,
			Errors:  []string{fmt.Sprintf("invalid import document: %v", err)},
		}
	}

	result := Result{Success: true, Tasks: []types.Task{}}
	for i, raw := range doc.Tasks {
		task, err := parseTask(raw)
		if err != nil {
			result.Dropped++
			result.Errors = append(result.Errors, fmt.Sprintf("task %d: %v", i, err))
			continue
		}
		result.Tasks = append(result.Tasks, task)
		result.Imported++
	}

	if settings, ok := parseSettings(doc.Settings); ok {
		result.Settings = &settings
	}
	return result
}

// requiredStrings are the fields every imported task must carry as
// non-empty strings.
var requiredStrings = []string{"id", "title", "dueDate", "tag"}

// parseTask validates one raw record structurally, then decodes it.
func parseTask(raw json.RawMessage) (types.Task, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Task{}, fmt.Errorf("not an object: %w", err)
	}

	for _, name := range requiredStrings {
		value, ok := fields[name]
		if !ok {
			return types.Task{}, fmt.Errorf("missing field %q", name)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil || s == "" {
			return types.Task{}, fmt.Errorf("field %q must be a non-empty string", name)
		}
	}

	durationRaw, ok := fields["duration"]
	if !ok {
		return types.Task{}, fmt.Errorf("missing field %q", "duration")
	}
	var duration float64
	if err := json.Unmarshal(durationRaw, &duration); err != nil {
		return types.Task{}, fmt.Errorf("field %q must be numeric", "duration")
	}
	if duration < 0 {
		return types.Task{}, fmt.Errorf("field %q must be non-negative", "duration")
	}

	var task types.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return types.Task{}, fmt.Errorf("malformed record: %w", err)
	}
	return task, nil
}

// parseSettings decodes the settings branch when present and well-formed;
// a missing or malformed branch falls back to the caller's settings.
func parseSettings(raw json.RawMessage) (types.Settings, bool) {
	if len(raw) == 0 {
		return types.Settings{}, false
	}
	var settings types.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return types.Settings{}, false
	}
	if settings.TimeUnit != types.UnitHours && settings.TimeUnit != types.UnitMinutes {
		return types.Settings{}, false
	}
	if settings.DurationCap < 0 {
		return types.Settings{}, false
	}
	return settings, true
}

// Package export builds portable snapshots of the task collection and
// settings for backup or transfer. The JSON encoding is canonical; YAML is
// offered as a secondary, human-editable encoding of the same document.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weekwise/weekwise/types"
)

// Encodings accepted by Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SchemaVersion identifies the document layout for future migrations.
const SchemaVersion = "1.0"

// Document is the exported snapshot.
type Document struct {
	Version    string         `json:"version" yaml:"version"`
	ExportedAt time.Time      `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []types.Task   `json:"tasks" yaml:"tasks"`
	Settings   types.Settings `json:"settings" yaml:"settings"`
}

// Snapshot assembles a document from the current collection and settings.
// The tasks are deep-copied so later store mutations cannot alter an
// already-built document.
func Snapshot(tasks []types.Task, settings types.Settings) Document {
	return Document{
		Version:    SchemaVersion,
		ExportedAt: time.Now().UTC(),
		Tasks:      types.CloneTasks(tasks),
		Settings:   settings,
	}
}

// Marshal encodes the document in the requested format. An unknown format
// is an error, not a silent JSON fallback.
func Marshal(doc Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode export document: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode export document: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/weekwise/weekwise/types"
)

// Constants for cross-process file locking.
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// fileDocument is the on-disk layout: one JSON document holding both the
// task collection and the settings record.
type fileDocument struct {
	Version   string          `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Tasks     []types.Task    `json:"tasks"`
	Settings  *types.Settings `json:"settings,omitempty"`
}

// JSONAdapter persists tasks and settings to a single JSON file guarded by
// a cross-process flock. Writes go to a temp file and are renamed into
// place so readers never observe a partial document.
type JSONAdapter struct {
	filePath string
	fileLock *flock.Flock
	logger   *slog.Logger
	timeFunc func() time.Time
}

// NewJSONAdapter creates an adapter for the given file path. The file is
// created lazily on first save. A nil logger falls back to slog.Default.
func NewJSONAdapter(filePath string, logger *slog.Logger) *JSONAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONAdapter{
		filePath: filePath,
		fileLock: flock.New(filePath + ".lock"),
		logger:   logger,
		timeFunc: time.Now,
	}
}

// acquireLock attempts to take the exclusive file lock with retry.
func (a *JSONAdapter) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := a.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// load reads and parses the backing file. Absent or corrupt files yield an
// empty document so a damaged origin store never blocks startup.
func (a *JSONAdapter) load() fileDocument {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := a.acquireLock(ctx); err != nil {
		a.logger.Warn("storage lock unavailable, using defaults", "path", a.filePath, "error", err)
		return fileDocument{}
	}
	defer func() { _ = a.fileLock.Unlock() }()

	if _, err := os.Stat(a.filePath); errors.Is(err, os.ErrNotExist) {
		return fileDocument{}
	}
	data, err := os.ReadFile(a.filePath)
	if err != nil {
		a.logger.Warn("failed to read storage file, using defaults", "path", a.filePath, "error", err)
		return fileDocument{}
	}
	if len(data) == 0 {
		return fileDocument{}
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		a.logger.Warn("corrupt storage file, using defaults", "path", a.filePath, "error", err)
		return fileDocument{}
	}
	return doc
}

// save writes the document atomically under the file lock.
func (a *JSONAdapter) save(doc fileDocument) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := a.acquireLock(ctx); err != nil {
		a.logger.Error("failed to lock storage file", "path", a.filePath, "error", err)
		return false
	}
	defer func() { _ = a.fileLock.Unlock() }()

	doc.Version = "1.0"
	doc.UpdatedAt = a.timeFunc()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		a.logger.Error("failed to marshal storage document", "error", err)
		return false
	}

	tmpFile := a.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		a.logger.Error("failed to write temp file", "path", tmpFile, "error", err)
		return false
	}
	if err := os.Rename(tmpFile, a.filePath); err != nil {
		_ = os.Remove(tmpFile)
		a.logger.Error("failed to rename storage file", "path", a.filePath, "error", err)
		return false
	}
	return true
}

func (a *JSONAdapter) LoadTasks() []types.Task {
	return a.load().Tasks
}

func (a *JSONAdapter) SaveTasks(tasks []types.Task) bool {
	doc := a.load()
	doc.Tasks = tasks
	return a.save(doc)
}

func (a *JSONAdapter) LoadSettings() types.Settings {
	doc := a.load()
	if doc.Settings == nil {
		return types.DefaultSettings()
	}
	return *doc.Settings
}

func (a *JSONAdapter) SaveSettings(settings types.Settings) bool {
	doc := a.load()
	doc.Settings = &settings
	return a.save(doc)
}

func (a *JSONAdapter) ClearAll() bool {
	return a.save(fileDocument{})
}

package storage

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/weekwise/weekwise/types"
)

// SQLiteAdapter persists tasks and settings in a local SQLite database.
// It honors the same contract as the JSON adapter: reads degrade to empty
// defaults, writes report success as a boolean.
type SQLiteAdapter struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at dbPath and ensures the
// schema exists.
func OpenSQLite(dbPath string, logger *slog.Logger) (*SQLiteAdapter, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	a := &SQLiteAdapter{db: db, logger: logger}
	if err := a.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *SQLiteAdapter) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *SQLiteAdapter) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	due_date TEXT NOT NULL,
	duration REAL NOT NULL,
	tag TEXT NOT NULL,
	description TEXT DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	completed_at TEXT DEFAULT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	time_unit TEXT NOT NULL,
	date_format TEXT NOT NULL,
	due_reminders INTEGER NOT NULL,
	goal_alerts INTEGER NOT NULL,
	duration_cap REAL NOT NULL,
	case_sensitive_search INTEGER NOT NULL
);`
	_, err := a.db.Exec(ddl)
	return err
}

func (a *SQLiteAdapter) LoadTasks() []types.Task {
	rows, err := a.db.Query(`SELECT id, title, due_date, duration, tag, description, completed, created_at, updated_at, completed_at FROM tasks ORDER BY position;`)
	if err != nil {
		a.logger.Warn("failed to load tasks, using defaults", "error", err)
		return nil
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var t types.Task
		var doneInt int
		var createdStr, updatedStr string
		var completedStr sql.NullString

		if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.Duration, &t.Tag, &t.Description, &doneInt, &createdStr, &updatedStr, &completedStr); err != nil {
			a.logger.Warn("skipping unreadable task row", "error", err)
			continue
		}
		t.Completed = doneInt == 1
		if parsed, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = parsed
		}
		if parsed, err := time.Parse(time.RFC3339, updatedStr); err == nil {
			t.UpdatedAt = parsed
		}
		if completedStr.Valid {
			if parsed, err := time.Parse(time.RFC3339, completedStr.String); err == nil {
				t.CompletedAt = &parsed
			}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		a.logger.Warn("failed while reading task rows", "error", err)
	}
	return tasks
}

// SaveTasks replaces the whole collection in one transaction, matching the
// last-write-wins semantics of the key-value contract.
func (a *SQLiteAdapter) SaveTasks(tasks []types.Task) bool {
	tx, err := a.db.Begin()
	if err != nil {
		a.logger.Error("failed to begin transaction", "error", err)
		return false
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		a.logger.Error("failed to clear tasks", "error", err)
		return false
	}
	for i, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		completedAt := sql.NullString{}
		if t.CompletedAt != nil {
			completedAt = sql.NullString{String: t.CompletedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		_, err := tx.Exec(
			`INSERT INTO tasks (id, title, due_date, duration, tag, description, completed, created_at, updated_at, completed_at, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			t.ID, t.Title, t.DueDate, t.Duration, t.Tag, t.Description, completed,
			t.CreatedAt.UTC().Format(time.RFC3339), t.UpdatedAt.UTC().Format(time.RFC3339), completedAt, i,
		)
		if err != nil {
			a.logger.Error("failed to insert task", "id", t.ID, "error", err)
			return false
		}
	}
	if err := tx.Commit(); err != nil {
		a.logger.Error("failed to commit tasks", "error", err)
		return false
	}
	return true
}

func (a *SQLiteAdapter) LoadSettings() types.Settings {
	row := a.db.QueryRow(`SELECT time_unit, date_format, due_reminders, goal_alerts, duration_cap, case_sensitive_search FROM settings WHERE id = 1;`)
	var s types.Settings
	var reminders, alerts, caseSensitive int
	if err := row.Scan(&s.TimeUnit, &s.DateFormat, &reminders, &alerts, &s.DurationCap, &caseSensitive); err != nil {
		return types.DefaultSettings()
	}
	s.DueReminders = reminders == 1
	s.GoalAlerts = alerts == 1
	s.CaseSensitiveSearch = caseSensitive == 1
	return s
}

func (a *SQLiteAdapter) SaveSettings(settings types.Settings) bool {
	boolInt := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	_, err := a.db.Exec(
		`INSERT INTO settings (id, time_unit, date_format, due_reminders, goal_alerts, duration_cap, case_sensitive_search)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET time_unit=excluded.time_unit, date_format=excluded.date_format,
		 due_reminders=excluded.due_reminders, goal_alerts=excluded.goal_alerts,
		 duration_cap=excluded.duration_cap, case_sensitive_search=excluded.case_sensitive_search;`,
		settings.TimeUnit, settings.DateFormat, boolInt(settings.DueReminders),
		boolInt(settings.GoalAlerts), settings.DurationCap, boolInt(settings.CaseSensitiveSearch),
	)
	if err != nil {
		a.logger.Error("failed to save settings", "error", err)
		return false
	}
	return true
}

func (a *SQLiteAdapter) ClearAll() bool {
	if _, err := a.db.Exec(`DELETE FROM tasks; DELETE FROM settings;`); err != nil {
		a.logger.Error("failed to clear database", "error", err)
		return false
	}
	return true
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Archive persists finished workflows in SQLite
type Archive struct {
	db             *sql.DB
	validStepTypes map[StepType]bool
}

// WorkflowSummary is one row of the archive listing
type WorkflowSummary struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	StartURL   string `json:"startUrl,omitempty" yaml:"start_url,omitempty"`
	StartTime  int64  `json:"startTime" yaml:"start_time"`
	Duration   int64  `json:"duration" yaml:"duration"`
	EventCount int    `json:"eventCount" yaml:"event_count"`
	StepCount  int    `json:"stepCount" yaml:"step_count"`
	TabCount   int    `json:"tabCount" yaml:"tab_count"`
	RecordedAt string `json:"recordedAt,omitempty" yaml:"recorded_at,omitempty"`
}

// GetStartTime returns the start time as time.Time
func (s WorkflowSummary) GetStartTime() time.Time {
	if s.StartTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.StartTime)
}

// OpenArchive opens (creating if needed) the archive at path. ":memory:"
// gives a private in-memory archive.
func OpenArchive(path string) (*Archive, error) {
	dsn := path
	if path != ":memory:" {
		// WAL + busy timeout to avoid "database is locked"
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &ArchiveError{Op: "open", Err: err}
	}
	// single connection: one writer, and :memory: stays one database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &ArchiveError{Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}
	if path == ":memory:" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, &ArchiveError{Op: "open", Err: err}
		}
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, &ArchiveError{Op: "open", Err: err}
	}

	return &Archive{
		db: db,
		validStepTypes: map[StepType]bool{
			StepClick:      true,
			StepInput:      true,
			StepKeypress:   true,
			StepNavigate:   true,
			StepScroll:     true,
			StepExtraction: true,
			StepGeneric:    true,
		},
	}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS workflows(
	  id          TEXT    PRIMARY KEY,
	  name        TEXT,
	  start_url   TEXT,
	  start_time  INTEGER NOT NULL,
	  end_time    INTEGER,
	  duration    INTEGER NOT NULL,
	  event_count INTEGER NOT NULL,
	  step_count  INTEGER NOT NULL,
	  tab_count   INTEGER NOT NULL,
	  recorded_at TEXT
	);
	CREATE TABLE IF NOT EXISTS steps(
	  workflow_id TEXT    NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
	  idx         INTEGER NOT NULL,
	  type        TEXT    NOT NULL CHECK (type IN ('click','input','keypress','navigate','scroll','extraction','rrweb-generic')),
	  ts          INTEGER NOT NULL,
	  tab_id      INTEGER NOT NULL,
	  data_json   TEXT    NOT NULL CHECK (json_valid(data_json)),
	  PRIMARY KEY (workflow_id, idx)
	);
	CREATE INDEX IF NOT EXISTS idx_workflows_start ON workflows(start_time);
	CREATE INDEX IF NOT EXISTS idx_steps_type      ON steps(type);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

// ValidateWorkflow checks a workflow before it is stored
func (a *Archive) ValidateWorkflow(w *Workflow) error {
	if w == nil {
		return fmt.Errorf("workflow is nil")
	}
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("workflow id cannot be empty")
	}
	for _, step := range w.Steps {
		if !a.validStepTypes[step.Type] {
			return fmt.Errorf("invalid step type at index %d: %q", step.Index, step.Type)
		}
	}
	return nil
}

// SaveWorkflow stores w, replacing any workflow with the same id
func (a *Archive) SaveWorkflow(ctx context.Context, w *Workflow) error {
	if err := a.ValidateWorkflow(w); err != nil {
		id := ""
		if w != nil {
			id = w.ID
		}
		return &ArchiveError{Op: "save", WorkflowID: id, Err: fmt.Errorf("invalid workflow: %w", err)}
	}
	if err := a.saveWorkflow(ctx, w); err != nil {
		return &ArchiveError{Op: "save", WorkflowID: w.ID, Err: err}
	}
	LogDebug("Archived workflow %s with %d step(s)", w.ID, len(w.Steps))
	return nil
}

func (a *Archive) saveWorkflow(ctx context.Context, w *Workflow) error {
	transaction, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	if _, err := transaction.ExecContext(ctx, `DELETE FROM workflows WHERE id = ?`, w.ID); err != nil {
		return fmt.Errorf("failed to replace workflow: %w", err)
	}

	m := w.Metadata
	_, err = transaction.ExecContext(ctx, `
	INSERT INTO workflows(id, name, start_url, start_time, end_time, duration, event_count, step_count, tab_count, recorded_at)
	VALUES(?,?,?,?,?,?,?,?,?,?)`,
		w.ID, m.Name, w.StartURL(), m.StartTime, m.EndTime, m.Duration, m.EventCount, len(w.Steps), m.TabCount, m.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}

	statement, err := transaction.PrepareContext(ctx, `INSERT INTO steps(workflow_id, idx, type, ts, tab_id, data_json) VALUES(?,?,?,?,?,json(?))`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer statement.Close()

	for _, step := range w.Steps {
		jsonData, err := json.Marshal(step)
		if err != nil {
			return fmt.Errorf("failed to marshal step %d: %w", step.Index, err)
		}
		if _, err := statement.ExecContext(ctx, w.ID, step.Index, string(step.Type), step.Timestamp, int(step.TabID), string(jsonData)); err != nil {
			return fmt.Errorf("failed to insert step %d: %w", step.Index, err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListWorkflows returns archived workflows, newest first
func (a *Archive) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT id, name, start_url, start_time, duration, event_count, step_count, tab_count, recorded_at
	FROM workflows ORDER BY start_time DESC, id`)
	if err != nil {
		return nil, &ArchiveError{Op: "list", Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	summaries := make([]WorkflowSummary, 0)
	for rows.Next() {
		var s WorkflowSummary
		var name, startURL, recordedAt sql.NullString
		if err := rows.Scan(&s.ID, &name, &startURL, &s.StartTime, &s.Duration, &s.EventCount, &s.StepCount, &s.TabCount, &recordedAt); err != nil {
			return nil, &ArchiveError{Op: "list", Err: fmt.Errorf("scan failed: %w", err)}
		}
		s.Name = name.String
		s.StartURL = startURL.String
		s.RecordedAt = recordedAt.String
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &ArchiveError{Op: "list", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return summaries, nil
}

// LoadWorkflow reads one workflow with all its steps
func (a *Archive) LoadWorkflow(ctx context.Context, id string) (*Workflow, error) {
	w := &Workflow{ID: id, Steps: []Step{}}
	var name, recordedAt sql.NullString
	var endTime sql.NullInt64
	m := &w.Metadata

	err := a.db.QueryRowContext(ctx, `
	SELECT name, start_time, end_time, duration, event_count, step_count, tab_count, recorded_at
	FROM workflows WHERE id = ?`, id).
		Scan(&name, &m.StartTime, &endTime, &m.Duration, &m.EventCount, &m.StepCount, &m.TabCount, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: ErrWorkflowNotFound}
	}
	if err != nil {
		return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: err}
	}
	m.Name = name.String
	m.RecordedAt = recordedAt.String
	m.EndTime = endTime.Int64

	rows, err := a.db.QueryContext(ctx, `SELECT data_json FROM steps WHERE workflow_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: fmt.Errorf("scan failed: %w", err)}
		}
		var step Step
		if err := json.Unmarshal([]byte(data), &step); err != nil {
			return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: fmt.Errorf("failed to parse step JSON: %w", err)}
		}
		w.Steps = append(w.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, &ArchiveError{Op: "load", WorkflowID: id, Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return w, nil
}

// ResolveID expands a unique id prefix to the full workflow id
func (a *Archive) ResolveID(ctx context.Context, prefix string) (string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM workflows WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT 2`, prefix, prefix)
	if err != nil {
		return "", &ArchiveError{Op: "load", WorkflowID: prefix, Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", &ArchiveError{Op: "load", WorkflowID: prefix, Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", &ArchiveError{Op: "load", WorkflowID: prefix, Err: err}
	}

	switch len(ids) {
	case 0:
		return "", &ArchiveError{Op: "load", WorkflowID: prefix, Err: ErrWorkflowNotFound}
	case 1:
		return ids[0], nil
	default:
		return "", &ArchiveError{Op: "load", WorkflowID: prefix, Err: fmt.Errorf("ambiguous id prefix")}
	}
}

// DeleteWorkflow removes a workflow and its steps
func (a *Archive) DeleteWorkflow(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = ?`, id)
	if err != nil {
		return &ArchiveError{Op: "delete", WorkflowID: id, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &ArchiveError{Op: "delete", WorkflowID: id, Err: err}
	}
	if n == 0 {
		return &ArchiveError{Op: "delete", WorkflowID: id, Err: ErrWorkflowNotFound}
	}
	return nil
}

// CountWorkflows returns the number of archived workflows
func (a *Archive) CountWorkflows(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workflows`).Scan(&count); err != nil {
		return 0, &ArchiveError{Op: "list", Err: err}
	}
	return count, nil
}

package store

import "database/sql"

// schemaSQL is the base DDL, applied once via execute-batch semantics
// (one Exec per statement since database/sql has no batch-exec). Every
// statement is idempotent (IF NOT EXISTS) so Open can run it on every
// startup. Table list and constraints are grounded on the sibling
// implementation's schema.rs, trimmed to this module's scope.
var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS issues (
		id TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL CHECK(length(title) <= 500),
		description TEXT NOT NULL DEFAULT '',
		design TEXT NOT NULL DEFAULT '',
		acceptance_criteria TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		priority INTEGER NOT NULL DEFAULT 2 CHECK(priority >= 0 AND priority <= 4),
		issue_type TEXT NOT NULL DEFAULT 'task',
		assignee TEXT,
		owner TEXT,
		created_by TEXT,
		estimated_minutes INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		closed_at DATETIME,
		close_reason TEXT,
		closed_by_session TEXT,
		due_at DATETIME,
		defer_until DATETIME,
		external_ref TEXT,
		source_system TEXT,
		source_repo TEXT,
		deleted_at DATETIME,
		deleted_by TEXT,
		delete_reason TEXT,
		ephemeral INTEGER NOT NULL DEFAULT 0,
		pinned INTEGER NOT NULL DEFAULT 0,
		is_template INTEGER NOT NULL DEFAULT 0,
		CHECK (
			(status = 'closed' AND closed_at IS NOT NULL) OR
			(status = 'tombstone') OR
			(status NOT IN ('closed', 'tombstone') AND closed_at IS NULL)
		)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_priority ON issues(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_issue_type ON issues(issue_type)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues(assignee) WHERE assignee IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_issues_created_at ON issues(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_updated_at ON issues(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_content_hash ON issues(content_hash)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_issues_external_ref_unique ON issues(external_ref) WHERE external_ref IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_issues_due_at ON issues(due_at) WHERE due_at IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_issues_defer_until ON issues(defer_until) WHERE defer_until IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_issues_ready
		ON issues(status, priority, created_at)
		WHERE status IN ('open', 'in_progress') AND ephemeral = 0 AND pinned = 0`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		issue_id TEXT NOT NULL,
		depends_on_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'blocks',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT '{}',
		thread_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (issue_id, depends_on_id),
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_issue_id ON dependencies(issue_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_depends_on_id ON dependencies(depends_on_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_type ON dependencies(type)`,

	`CREATE TABLE IF NOT EXISTS labels (
		issue_id TEXT NOT NULL,
		label TEXT NOT NULL,
		PRIMARY KEY (issue_id, label),
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_id TEXT NOT NULL,
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_issue ON comments(issue_id)`,

	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		old_value TEXT,
		new_value TEXT,
		comment TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_issue ON events(issue_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type)`,

	`CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS dirty_issues (
		issue_id TEXT PRIMARY KEY,
		marked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dirty_issues_marked_at ON dirty_issues(marked_at)`,

	`CREATE TABLE IF NOT EXISTS export_hashes (
		issue_id TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS blocked_issues_cache (
		issue_id TEXT PRIMARY KEY,
		blocked_by TEXT NOT NULL,
		blocked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blocked_cache_blocked_at ON blocked_issues_cache(blocked_at)`,

	`CREATE TABLE IF NOT EXISTS child_counters (
		parent_id TEXT PRIMARY KEY,
		last_child INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (parent_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
}

// Migration is one named, idempotent schema step recorded in the
// metadata table so it never re-runs once applied.
type Migration struct {
	Name  string
	Apply func(*sql.Tx) error
}

// migrations runs in order after the base schema is created. Each one
// guards its own precondition so it is safe to re-run; the metadata
// ledger is an optimization, not the only safety net.
var migrations = []Migration{
	{
		Name: "001_seed_schema_version",
		Apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1')`)
			return err
		},
	},
}

// applySchema creates every table/index (idempotent) and then runs any
// migration not yet recorded in the metadata table.
func applySchema(db *sql.DB) error {
	for _, stmt := range schemaSQL {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	applied := map[string]bool{}
	rows, err := tx.Query(`SELECT value FROM metadata WHERE key = 'applied_migrations'`)
	if err != nil {
		return err
	}
	var existing sql.NullString
	if rows.Next() {
		_ = rows.Scan(&existing)
	}
	rows.Close()
	if existing.Valid {
		for _, name := range splitCSV(existing.String) {
			applied[name] = true
		}
	}

	ran := []string{}
	for name := range applied {
		ran = append(ran, name)
	}
	for _, m := range migrations {
		if applied[m.Name] {
			continue
		}
		if err := m.Apply(tx); err != nil {
			return err
		}
		ran = append(ran, m.Name)
	}

	if _, err := tx.Exec(
		`INSERT INTO metadata (key, value) VALUES ('applied_migrations', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		joinCSV(ran),
	); err != nil {
		return err
	}

	return tx.Commit()
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func joinCSV(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

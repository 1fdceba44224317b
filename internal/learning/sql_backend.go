package learning

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/at-ishikawa/wordmemo/schemas"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// SQLBackend stores statuses in the word_statuses table of a MySQL or SQLite database.
type SQLBackend struct {
	db      *sqlx.DB
	dialect string
}

// NewSQLBackend wraps an open connection. Call Migrate before the first Load.
func NewSQLBackend(db *sqlx.DB, dialect string) *SQLBackend {
	return &SQLBackend{
		db:      db,
		dialect: dialect,
	}
}

// OpenSQLiteBackend opens or creates a SQLite database file and migrates it.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLBackend, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(sqlite) > %w", err)
	}

	backend := NewSQLBackend(db, DialectSQLite)
	if err := backend.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("backend.Migrate() > %w", err)
	}
	return backend, nil
}

// Migrate applies the embedded migrations of the dialect and records the schema version.
func (b *SQLBackend) Migrate(ctx context.Context) error {
	paths, err := fs.Glob(schemas.Migrations, "migrations/"+b.dialect+"/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob(%s) > %w", b.dialect, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no migrations for dialect %q", b.dialect)
	}

	for _, path := range paths {
		content, err := fs.ReadFile(schemas.Migrations, path)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", path, err)
		}
		for _, statement := range strings.Split(string(content), ";") {
			statement = strings.TrimSpace(statement)
			if statement == "" {
				continue
			}
			if _, err := b.db.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("db.ExecContext(%s) > %w", path, err)
			}
		}
	}

	var count int
	if err := b.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schema_meta"); err != nil {
		return fmt.Errorf("db.GetContext(schema_meta count) > %w", err)
	}
	if count == 0 {
		if _, err := b.db.ExecContext(ctx, "INSERT INTO schema_meta (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("db.ExecContext(insert schema_meta) > %w", err)
		}
	}
	return nil
}

type statusRow struct {
	Word   string `db:"word"`
	Status string `db:"status"`
}

// Load reads every row of word_statuses.
func (b *SQLBackend) Load(ctx context.Context) (StatusMap, error) {
	var version int
	if err := b.db.GetContext(ctx, &version, "SELECT version FROM schema_meta LIMIT 1"); err != nil {
		return nil, fmt.Errorf("db.GetContext(schema_meta) > %w", err)
	}
	if version != SchemaVersion {
		return nil, fmt.Errorf("unsupported status schema version %d", version)
	}

	var rows []statusRow
	if err := b.db.SelectContext(ctx, &rows, "SELECT word, status FROM word_statuses ORDER BY word"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(word_statuses) > %w", err)
	}

	statuses := make(StatusMap, len(rows))
	for _, row := range rows {
		statuses[row.Word] = LearningStatus(row.Status)
	}
	return statuses, nil
}

// Save replaces the table contents in one transaction.
func (b *SQLBackend) Save(ctx context.Context, statuses StatusMap) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM word_statuses"); err != nil {
		return fmt.Errorf("tx.ExecContext(delete word_statuses) > %w", err)
	}
	for _, word := range statuses.SortedWords() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO word_statuses (word, status) VALUES (?, ?)",
			word, string(statuses[word]),
		); err != nil {
			return fmt.Errorf("tx.ExecContext(insert word_status %s) > %w", word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

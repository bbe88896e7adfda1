package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"studymate/internal/domain"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository implements repository.Repository on six SQL tables
type Repository struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the tables if needed.
// For SQLite, dsn is a file path or ":memory:"; for PostgreSQL it is a
// connection URL understood by lib/pq.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: sql driver %q", domain.ErrUnsupportedFormat, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, domain.IOFailure("relational.Open", fmt.Errorf("failed to open database: %w", err))
	}
	if driver == DriverSQLite {
		// every connection to ":memory:" is a separate database, and SQLite
		// serializes writers anyway
		db.SetMaxOpenConns(1)
	}

	repo, err := New(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// New wraps an existing connection pool and creates the tables if needed
func New(ctx context.Context, db *sql.DB, driver string) (*Repository, error) {
	repo := &Repository{db: db, driver: driver}
	if err := repo.migrate(ctx); err != nil {
		return nil, domain.IOFailure("relational.Open", fmt.Errorf("failed to create schema: %w", err))
	}
	return repo, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			instructor TEXT NOT NULL,
			semester TEXT NOT NULL,
			credit_hours INTEGER NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY,
			course_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			due_date TEXT NOT NULL,
			priority INTEGER NOT NULL,
			status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY,
			course_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT,
			created_on TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tests (
			id INTEGER PRIMARY KEY,
			course_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			test_date TEXT NOT NULL,
			max_score DOUBLE PRECISION NOT NULL,
			score DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS study_habits (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			weekly_target INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS habit_logs (
			id INTEGER PRIMARY KEY,
			habit_id INTEGER NOT NULL,
			log_date TEXT NOT NULL,
			amount INTEGER NOT NULL,
			note TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments(course_id)`,
		`CREATE INDEX IF NOT EXISTS idx_habit_logs_habit ON habit_logs(habit_id)`,
	}

	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Save replaces the contents of all six tables with snap. Either every
// delete and insert is committed or none is.
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	if err := snap.CheckDates("relational.Save"); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.IOFailure("relational.Save", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	// Children first, mirroring the ownership in the schema
	for _, table := range []string{"habit_logs", "study_habits", "tests", "notes", "assignments", "courses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return domain.IOFailure("relational.Save", fmt.Errorf("failed to clear %s: %w", table, err))
		}
	}

	inserts := []struct {
		table string
		query string
		rows  [][]any
	}{
		{"courses", `INSERT INTO courses (` + courseColumns + `) VALUES (?, ?, ?, ?, ?, ?)`, courseArgs(snap.Courses)},
		{"assignments", `INSERT INTO assignments (` + assignmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`, assignmentArgs(snap.Assignments)},
		{"notes", `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?)`, noteArgs(snap.Notes)},
		{"tests", `INSERT INTO tests (` + testColumns + `) VALUES (?, ?, ?, ?, ?, ?)`, testArgs(snap.Tests)},
		{"study_habits", `INSERT INTO study_habits (` + habitColumns + `) VALUES (?, ?, ?, ?)`, habitArgs(snap.Habits)},
		{"habit_logs", `INSERT INTO habit_logs (` + habitLogColumns + `) VALUES (?, ?, ?, ?, ?)`, habitLogArgs(snap.HabitLogs)},
	}

	for _, ins := range inserts {
		if err := r.insertAll(ctx, tx, ins.table, ins.query, ins.rows); err != nil {
			return domain.IOFailure("relational.Save", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.IOFailure("relational.Save", fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (r *Repository) insertAll(ctx context.Context, tx *sql.Tx, table, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, r.rebind(query))
	if err != nil {
		return fmt.Errorf("failed to prepare %s statement: %w", table, err)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %s (id %v): %w", table, args[0], err)
		}
	}
	return nil
}

// Load reads all six tables. Row order is whatever the database returns;
// callers that need an order must sort.
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.IOFailure("relational.Load", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	snap := domain.NewSnapshot()

	if err := queryRows(ctx, tx, "SELECT "+courseColumns+" FROM courses", func(row *courseRow) error {
		snap.Courses = append(snap.Courses, row.toDomain())
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, "SELECT "+assignmentColumns+" FROM assignments", func(row *assignmentRow) error {
		a, err := row.toDomain()
		if err != nil {
			return err
		}
		snap.Assignments = append(snap.Assignments, a)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, "SELECT "+noteColumns+" FROM notes", func(row *noteRow) error {
		n, err := row.toDomain()
		if err != nil {
			return err
		}
		snap.Notes = append(snap.Notes, n)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, "SELECT "+testColumns+" FROM tests", func(row *testRow) error {
		tt, err := row.toDomain()
		if err != nil {
			return err
		}
		snap.Tests = append(snap.Tests, tt)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, "SELECT "+habitColumns+" FROM study_habits", func(row *habitRow) error {
		snap.Habits = append(snap.Habits, row.toDomain())
		return nil
	}); err != nil {
		return nil, err
	}

	if err := queryRows(ctx, tx, "SELECT "+habitLogColumns+" FROM habit_logs", func(row *habitLogRow) error {
		l, err := row.toDomain()
		if err != nil {
			return err
		}
		snap.HabitLogs = append(snap.HabitLogs, l)
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

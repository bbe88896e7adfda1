package relational

import (
	"context"
	"database/sql"
	"fmt"

	"studymate/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ============================================================================
// Generic Row Iteration
// ============================================================================

// rowScanner is implemented by the *Row types below
type rowScanner[R any] interface {
	*R
	scanArgs() []any
}

// queryRows runs query and hands each scanned row to fn. Query and iteration
// failures are I/O errors; scan and conversion failures are decode errors.
func queryRows[R any, P rowScanner[R]](ctx context.Context, tx *sql.Tx, query string, fn func(P) error) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return domain.IOFailure("relational.Load", fmt.Errorf("failed to query: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var row R
		p := P(&row)
		if err := rows.Scan(p.scanArgs()...); err != nil {
			return domain.DecodeFailure("relational.Load", fmt.Errorf("failed to scan row: %w", err))
		}
		if err := fn(p); err != nil {
			return domain.DecodeFailure("relational.Load", err)
		}
	}

	if err := rows.Err(); err != nil {
		return domain.IOFailure("relational.Load", fmt.Errorf("error iterating rows: %w", err))
	}
	return nil
}

// ============================================================================
// Row Scanners
// ============================================================================
//
// Column order must match between the *Columns constant, scanArgs() and the
// matching *Args() insert helper.

const courseColumns = `id, name, instructor, semester, credit_hours, description`

type courseRow struct {
	ID          int
	Name        string
	Instructor  string
	Semester    string
	CreditHours int
	Description sql.NullString
}

func (r *courseRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Instructor, &r.Semester, &r.CreditHours, &r.Description}
}

func (r *courseRow) toDomain() domain.Course {
	return domain.Course{
		ID:          r.ID,
		Name:        r.Name,
		Instructor:  r.Instructor,
		Semester:    r.Semester,
		CreditHours: r.CreditHours,
		Description: nullToString(r.Description),
	}
}

func courseArgs(items []domain.Course) [][]any {
	rows := make([][]any, 0, len(items))
	for _, c := range items {
		rows = append(rows, []any{c.ID, c.Name, c.Instructor, c.Semester, c.CreditHours, c.Description})
	}
	return rows
}

const assignmentColumns = `id, course_id, title, description, due_date, priority, status`

type assignmentRow struct {
	ID          int
	CourseID    int
	Title       string
	Description sql.NullString
	DueDate     string
	Priority    int
	Status      sql.NullString
}

func (r *assignmentRow) scanArgs() []any {
	return []any{&r.ID, &r.CourseID, &r.Title, &r.Description, &r.DueDate, &r.Priority, &r.Status}
}

func (r *assignmentRow) toDomain() (domain.Assignment, error) {
	due, err := domain.ParseOptionalDate(r.DueDate)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment %d: %w", r.ID, err)
	}
	return domain.Assignment{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: nullToString(r.Description),
		DueDate:     due,
		Priority:    r.Priority,
		Status:      nullToString(r.Status),
	}, nil
}

func assignmentArgs(items []domain.Assignment) [][]any {
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		rows = append(rows, []any{a.ID, a.CourseID, a.Title, a.Description, a.DueDate.String(), a.Priority, a.Status})
	}
	return rows
}

const noteColumns = `id, course_id, title, content, created_on`

type noteRow struct {
	ID        int
	CourseID  int
	Title     string
	Content   sql.NullString
	CreatedOn string
}

func (r *noteRow) scanArgs() []any {
	return []any{&r.ID, &r.CourseID, &r.Title, &r.Content, &r.CreatedOn}
}

func (r *noteRow) toDomain() (domain.Note, error) {
	created, err := domain.ParseOptionalDate(r.CreatedOn)
	if err != nil {
		return domain.Note{}, fmt.Errorf("note %d: %w", r.ID, err)
	}
	return domain.Note{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Title:     r.Title,
		Content:   nullToString(r.Content),
		CreatedOn: created,
	}, nil
}

func noteArgs(items []domain.Note) [][]any {
	rows := make([][]any, 0, len(items))
	for _, n := range items {
		rows = append(rows, []any{n.ID, n.CourseID, n.Title, n.Content, n.CreatedOn.String()})
	}
	return rows
}

const testColumns = `id, course_id, name, test_date, max_score, score`

type testRow struct {
	ID       int
	CourseID int
	Name     string
	Date     string
	MaxScore float64
	Score    float64
}

func (r *testRow) scanArgs() []any {
	return []any{&r.ID, &r.CourseID, &r.Name, &r.Date, &r.MaxScore, &r.Score}
}

func (r *testRow) toDomain() (domain.Test, error) {
	date, err := domain.ParseOptionalDate(r.Date)
	if err != nil {
		return domain.Test{}, fmt.Errorf("test %d: %w", r.ID, err)
	}
	return domain.Test{
		ID:       r.ID,
		CourseID: r.CourseID,
		Name:     r.Name,
		Date:     date,
		MaxScore: r.MaxScore,
		Score:    r.Score,
	}, nil
}

func testArgs(items []domain.Test) [][]any {
	rows := make([][]any, 0, len(items))
	for _, t := range items {
		rows = append(rows, []any{t.ID, t.CourseID, t.Name, t.Date.String(), t.MaxScore, t.Score})
	}
	return rows
}

const habitColumns = `id, name, description, weekly_target`

type habitRow struct {
	ID           int
	Name         string
	Description  sql.NullString
	WeeklyTarget int
}

func (r *habitRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Description, &r.WeeklyTarget}
}

func (r *habitRow) toDomain() domain.StudyHabit {
	return domain.StudyHabit{
		ID:           r.ID,
		Name:         r.Name,
		Description:  nullToString(r.Description),
		WeeklyTarget: r.WeeklyTarget,
	}
}

func habitArgs(items []domain.StudyHabit) [][]any {
	rows := make([][]any, 0, len(items))
	for _, h := range items {
		rows = append(rows, []any{h.ID, h.Name, h.Description, h.WeeklyTarget})
	}
	return rows
}

const habitLogColumns = `id, habit_id, log_date, amount, note`

type habitLogRow struct {
	ID      int
	HabitID int
	Date    string
	Amount  int
	Note    sql.NullString
}

func (r *habitLogRow) scanArgs() []any {
	return []any{&r.ID, &r.HabitID, &r.Date, &r.Amount, &r.Note}
}

func (r *habitLogRow) toDomain() (domain.HabitLog, error) {
	date, err := domain.ParseOptionalDate(r.Date)
	if err != nil {
		return domain.HabitLog{}, fmt.Errorf("habit log %d: %w", r.ID, err)
	}
	return domain.HabitLog{
		ID:      r.ID,
		HabitID: r.HabitID,
		Date:    date,
		Amount:  r.Amount,
		Note:    nullToString(r.Note),
	}, nil
}

func habitLogArgs(items []domain.HabitLog) [][]any {
	rows := make([][]any, 0, len(items))
	for _, l := range items {
		rows = append(rows, []any{l.ID, l.HabitID, l.Date.String(), l.Amount, l.Note})
	}
	return rows
}

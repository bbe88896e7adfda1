package relational

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"studymate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err, "failed to create test repository")

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func fullSnapshot() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Courses = []domain.Course{
		{ID: 101, Name: "Calculus", Instructor: "Smith", Semester: "Fall 2025", CreditHours: 4, Description: "limits, series"},
		{ID: 102, Name: "Biology", Instructor: "Ng", Semester: "Fall 2025", CreditHours: 3},
	}
	snap.Assignments = []domain.Assignment{
		{ID: 1, CourseID: 101, Title: "PS1", Description: "ch1", DueDate: domain.NewDate(2025, time.October, 20), Priority: 1, Status: domain.StatusPending},
		{ID: 2, CourseID: 102, Title: "Lab", DueDate: domain.NewDate(2025, time.October, 21), Priority: 3, Status: domain.StatusCompleted},
		{ID: 3, CourseID: 999, Title: "Orphan", DueDate: domain.NewDate(2025, time.December, 1), Priority: 2, Status: domain.StatusInProgress},
	}
	snap.Notes = []domain.Note{{ID: 1, CourseID: 101, Title: "Lecture", Content: "text", CreatedOn: domain.NewDate(2025, time.September, 1)}}
	snap.Tests = []domain.Test{{ID: 1, CourseID: 102, Name: "Quiz", Date: domain.NewDate(2025, time.October, 1), MaxScore: 20, Score: 15.5}}
	snap.Habits = []domain.StudyHabit{{ID: 1, Name: "Flashcards", Description: "daily", WeeklyTarget: 5}}
	snap.HabitLogs = []domain.HabitLog{
		{ID: 1, HabitID: 1, Date: domain.NewDate(2025, time.October, 2), Amount: 1, Note: "ok"},
		{ID: 2, HabitID: 1, Date: domain.NewDate(2025, time.October, 3), Amount: 2},
	}
	return snap
}

// assertSnapshotsMatch compares collections without relying on row order
func assertSnapshotsMatch(t *testing.T, want, got *domain.Snapshot) {
	t.Helper()
	assert.ElementsMatch(t, want.Courses, got.Courses)
	assert.ElementsMatch(t, want.Assignments, got.Assignments)
	assert.ElementsMatch(t, want.Notes, got.Notes)
	assert.ElementsMatch(t, want.Tests, got.Tests)
	assert.ElementsMatch(t, want.Habits, got.Habits)
	assert.ElementsMatch(t, want.HabitLogs, got.HabitLogs)
}

func TestLoadEmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewSnapshot(), snap)
}

func TestRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := fullSnapshot()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsMatch(t, want, got)
}

func TestRoundTripOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studymate.db")
	ctx := context.Background()

	repo, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, fullSnapshot()))
	require.NoError(t, repo.Close())

	reopened, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsMatch(t, fullSnapshot(), got)
}

func TestSaveReplacesAllRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fullSnapshot()))

	smaller := domain.NewSnapshot()
	smaller.Courses = []domain.Course{{ID: 7, Name: "Only", Instructor: "X", Semester: "S", CreditHours: 1}}
	require.NoError(t, repo.Save(ctx, smaller))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller, got)
}

func TestSaveRollsBackOnFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	original := fullSnapshot()
	require.NoError(t, repo.Save(ctx, original))

	// the second habit log collides on the primary key, after every delete
	// and most inserts have already run inside the transaction
	broken := fullSnapshot()
	broken.Courses = []domain.Course{{ID: 500, Name: "New", Instructor: "Y", Semester: "S", CreditHours: 2}}
	broken.HabitLogs = []domain.HabitLog{
		{ID: 1, HabitID: 1, Date: domain.NewDate(2025, time.October, 2)},
		{ID: 1, HabitID: 1, Date: domain.NewDate(2025, time.October, 3)},
	}

	err := repo.Save(ctx, broken)
	require.Error(t, err)
	assert.True(t, domain.IsIO(err))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsMatch(t, original, got)
}

func TestLoadMalformedDateIsDecodeError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, `INSERT INTO assignments (id, course_id, title, due_date, priority, status) VALUES (1, 1, 'x', 'someday', 1, 'Pending')`)
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, domain.IsDecode(err))
}

func TestLoadToleratesNullText(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, `INSERT INTO courses (id, name, instructor, semester, credit_hours, description) VALUES (1, 'Art', 'X', 'S', 2, NULL)`)
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Courses, 1)
	assert.Equal(t, "", snap.Courses[0].Description)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		input  string
		want   string
	}{
		{DriverSQLite, "INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES (?, ?)"},
		{DriverPostgres, "INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{DriverPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		r := &Repository{driver: tt.driver}
		assert.Equal(t, tt.want, r.rebind(tt.input))
	}
}

func TestNullToString(t *testing.T) {
	assert.Equal(t, "", nullToString(sqlNull("x", false)))
	assert.Equal(t, "x", nullToString(sqlNull("x", true)))
}

func sqlNull(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}

func TestUndatedEntitiesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap := domain.NewSnapshot()
	snap.Courses = []domain.Course{{ID: 1, Name: "Chemistry", Instructor: "Curie", Semester: "Fall", CreditHours: 3}}
	snap.Assignments = []domain.Assignment{{ID: 1, CourseID: 1, Title: "no due date", Priority: 1, Status: domain.StatusPending}}
	snap.Notes = []domain.Note{{ID: 1, CourseID: 1, Title: "no date"}}
	snap.Tests = []domain.Test{{ID: 1, CourseID: 1, Name: "Pop quiz", MaxScore: 10}}
	snap.HabitLogs = []domain.HabitLog{{ID: 1, HabitID: 1, Amount: 2}}
	require.NoError(t, repo.Save(ctx, snap))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsMatch(t, snap, got)
}

func TestSaveRejectsInvalidDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, fullSnapshot()))

	bad := fullSnapshot()
	bad.Tests[0].Date = domain.Date{Year: 2025, Month: time.April, Day: 31}
	err := repo.Save(ctx, bad)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidArgument(err))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsMatch(t, fullSnapshot(), got)
}

package flatfile

import (
	"context"

	"studymate/internal/domain"
)

// Repository persists courses and assignments as two text files.
//
// Notes, tests, habits and habit logs are not stored by this backend: Save
// ignores them and Load returns them empty.
//
// Save writes the course file and then the assignment file. Each file is
// replaced atomically, but the pair is not: if the assignment write fails
// the course file already holds the new contents.
type Repository struct {
	courses     *Store[domain.Course]
	assignments *Store[domain.Assignment]
}

// New creates a flat-text repository
func New(coursesPath, assignmentsPath string) *Repository {
	return &Repository{
		courses:     NewStore[domain.Course](coursesPath, CourseCodec{}),
		assignments: NewStore[domain.Assignment](assignmentsPath, AssignmentCodec{}),
	}
}

// CoursesPath returns the course file location
func (r *Repository) CoursesPath() string {
	return r.courses.Path()
}

// AssignmentsPath returns the assignment file location
func (r *Repository) AssignmentsPath() string {
	return r.assignments.Path()
}

// Save rewrites both files
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	if err := snap.CheckDates("flatfile.Save"); err != nil {
		return err
	}

	if err := r.courses.SaveAll(ctx, snap.Courses); err != nil {
		return err
	}
	return r.assignments.SaveAll(ctx, snap.Assignments)
}

// Load reads both files into a snapshot whose other collections are empty
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	courses, err := r.courses.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := r.assignments.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := domain.NewSnapshot()
	snap.Courses = courses
	snap.Assignments = assignments
	return snap, nil
}

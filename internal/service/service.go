package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"studymate/internal/domain"
	"studymate/internal/repository"
)

// Options configures a StudyService.
type Options struct {
	// FlatFile and Document are saved, in that order, after every
	// admitting mutation. Either may be nil.
	FlatFile repository.Repository
	Document repository.Repository

	// Backends holds the repositories reachable through SaveTo and
	// LoadFrom. FlatFile and Document are added when missing.
	Backends map[repository.Kind]repository.Repository

	Clock  func() time.Time
	Events *EventBus
	Logger zerolog.Logger
}

type persistTarget struct {
	kind repository.Kind
	repo repository.Repository
}

// StudyService owns the in-memory study state and coordinates persistence.
type StudyService struct {
	autoPersist []persistTarget
	backends    map[repository.Kind]repository.Repository
	clock       func() time.Time
	eventBus    *EventBus
	log         zerolog.Logger

	mu          sync.RWMutex
	state       *domain.Snapshot
	courseIndex map[int]int
	assignIndex map[int]int
}

// New creates a service with empty state.
func New(opts Options) *StudyService {
	s := &StudyService{
		backends: make(map[repository.Kind]repository.Repository, len(opts.Backends)+2),
		clock:    opts.Clock,
		eventBus: opts.Events,
		log:      opts.Logger.With().Str("component", "service").Logger(),
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	for kind, repo := range opts.Backends {
		if repo != nil {
			s.backends[kind] = repo
		}
	}
	for _, t := range []persistTarget{
		{repository.KindFlatFile, opts.FlatFile},
		{repository.KindDocument, opts.Document},
	} {
		if t.repo == nil {
			continue
		}
		s.autoPersist = append(s.autoPersist, t)
		if _, ok := s.backends[t.kind]; !ok {
			s.backends[t.kind] = t.repo
		}
	}
	s.replace(domain.NewSnapshot())
	return s
}

// replace installs snap as the current state and rebuilds both indexes.
// Callers hold the write lock or own s exclusively.
func (s *StudyService) replace(snap *domain.Snapshot) {
	s.state = snap
	s.courseIndex = make(map[int]int, len(snap.Courses))
	for i, c := range snap.Courses {
		s.courseIndex[c.ID] = i
	}
	s.assignIndex = make(map[int]int, len(snap.Assignments))
	for i, a := range snap.Assignments {
		s.assignIndex[a.ID] = i
	}
}

// AddCourse admits a course whose id is not yet known and auto-persists.
// The id and credit hours must be positive.
func (s *StudyService) AddCourse(ctx context.Context, course domain.Course) error {
	if course.ID <= 0 {
		return domain.InvalidArgument("AddCourse", "course", course.ID, errNonPositive("id", course.ID))
	}
	if course.CreditHours <= 0 {
		return domain.InvalidArgument("AddCourse", "course", course.ID, errNonPositive("credit hours", course.CreditHours))
	}
	s.mu.Lock()
	if _, exists := s.courseIndex[course.ID]; exists {
		s.mu.Unlock()
		return domain.DuplicateID("AddCourse", "course", course.ID)
	}
	s.courseIndex[course.ID] = len(s.state.Courses)
	s.state.Courses = append(s.state.Courses, course)
	s.mu.Unlock()

	s.log.Info().Int("course_id", course.ID).Str("name", course.Name).Msg("course added")
	s.eventBus.Publish(Event{
		Type:    EventCourseAdded,
		Payload: map[string]int{"course_id": course.ID},
	})
	s.persist(ctx, "AddCourse")
	return nil
}

// AddAssignment admits an assignment that references a known course and
// carries an unused positive id, then auto-persists. The course reference is
// checked before the id is looked up.
func (s *StudyService) AddAssignment(ctx context.Context, a domain.Assignment) error {
	if a.ID <= 0 {
		return domain.InvalidArgument("AddAssignment", "assignment", a.ID, errNonPositive("id", a.ID))
	}
	s.mu.Lock()
	if _, ok := s.courseIndex[a.CourseID]; !ok {
		s.mu.Unlock()
		return domain.InvalidReference("AddAssignment", "course", a.CourseID)
	}
	if _, exists := s.assignIndex[a.ID]; exists {
		s.mu.Unlock()
		return domain.DuplicateID("AddAssignment", "assignment", a.ID)
	}
	s.assignIndex[a.ID] = len(s.state.Assignments)
	s.state.Assignments = append(s.state.Assignments, a)
	s.mu.Unlock()

	s.log.Info().Int("assignment_id", a.ID).Int("course_id", a.CourseID).Msg("assignment added")
	s.eventBus.Publish(Event{
		Type:    EventAssignmentAdded,
		Payload: map[string]int{"assignment_id": a.ID, "course_id": a.CourseID},
	})
	s.persist(ctx, "AddAssignment")
	return nil
}

// UpdateAssignmentStatus changes the status of an existing assignment and
// auto-persists.
func (s *StudyService) UpdateAssignmentStatus(ctx context.Context, id int, status string) error {
	s.mu.Lock()
	i, ok := s.assignIndex[id]
	if !ok {
		s.mu.Unlock()
		return domain.NotFound("UpdateAssignmentStatus", "assignment", id)
	}
	s.state.Assignments[i].SetStatus(status)
	s.mu.Unlock()

	s.eventBus.Publish(Event{
		Type:    EventAssignmentUpdated,
		Payload: map[string]any{"assignment_id": id, "status": status},
	})
	s.persist(ctx, "UpdateAssignmentStatus")
	return nil
}

// AddNote appends a note. Notes are not validated and are written by the
// next save.
func (s *StudyService) AddNote(n domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notes = append(s.state.Notes, n)
}

// AddTest appends a test result without validation.
func (s *StudyService) AddTest(t domain.Test) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tests = append(s.state.Tests, t)
}

// AddHabit appends a study habit without validation.
func (s *StudyService) AddHabit(h domain.StudyHabit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Habits = append(s.state.Habits, h)
}

// AddHabitLog appends a habit log entry without validation.
func (s *StudyService) AddHabitLog(l domain.HabitLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HabitLogs = append(s.state.HabitLogs, l)
}

// Courses returns a copy of the course collection in insertion order.
func (s *StudyService) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Course{}, s.state.Courses...)
}

// Assignments returns a copy of the assignment collection.
func (s *StudyService) Assignments() []domain.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Assignment{}, s.state.Assignments...)
}

func (s *StudyService) Notes() []domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Note{}, s.state.Notes...)
}

func (s *StudyService) Tests() []domain.Test {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Test{}, s.state.Tests...)
}

func (s *StudyService) Habits() []domain.StudyHabit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.StudyHabit{}, s.state.Habits...)
}

func (s *StudyService) HabitLogs() []domain.HabitLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HabitLog{}, s.state.HabitLogs...)
}

// CourseByID resolves a course id through the index.
func (s *StudyService) CourseByID(id int) (domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.courseIndex[id]
	if !ok {
		return domain.Course{}, false
	}
	return s.state.Courses[i], true
}

// Snapshot returns a deep copy of the whole state.
func (s *StudyService) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Restore replaces the whole state with a copy of snap. Nothing is
// persisted.
func (s *StudyService) Restore(snap *domain.Snapshot) {
	next := snap.Clone()

	s.mu.Lock()
	s.replace(next)
	counts := map[string]int{
		"courses":     len(next.Courses),
		"assignments": len(next.Assignments),
		"notes":       len(next.Notes),
		"tests":       len(next.Tests),
		"habits":      len(next.Habits),
		"habit_logs":  len(next.HabitLogs),
	}
	s.mu.Unlock()

	s.log.Debug().Interface("counts", counts).Msg("state restored")
	s.eventBus.Publish(Event{Type: EventStateRestored, Payload: counts})
}

// LoadInitial restores courses and assignments from the flat-text backend.
// On error the current state is left untouched.
func (s *StudyService) LoadInitial(ctx context.Context) error {
	return s.LoadFrom(ctx, repository.KindFlatFile)
}

// SaveTo writes the current state to the backend registered for kind.
func (s *StudyService) SaveTo(ctx context.Context, kind repository.Kind) error {
	repo, err := s.backend(kind)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("save to %s: %w", kind, err)
	}
	s.log.Info().Str("backend", string(kind)).Msg("state saved")
	return nil
}

// LoadFrom replaces the current state with the contents of the backend
// registered for kind.
func (s *StudyService) LoadFrom(ctx context.Context, kind repository.Kind) error {
	repo, err := s.backend(kind)
	if err != nil {
		return err
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load from %s: %w", kind, err)
	}
	s.Restore(snap)
	s.log.Info().Str("backend", string(kind)).Msg("state loaded")
	return nil
}

func (s *StudyService) backend(kind repository.Kind) (repository.Repository, error) {
	repo, ok := s.backends[kind]
	if !ok {
		return nil, fmt.Errorf("backend %q is not configured", kind)
	}
	return repo, nil
}

// persist saves the current state to every auto-persist backend in order.
// Failures are logged and published; in-memory state is never rolled back.
func (s *StudyService) persist(ctx context.Context, op string) {
	if len(s.autoPersist) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, t := range s.autoPersist {
		if err := t.repo.Save(ctx, snap); err != nil {
			s.log.Error().Err(err).Str("backend", string(t.kind)).Str("op", op).Msg("auto-persist failed")
			s.eventBus.Publish(Event{
				Type:    EventPersistFailed,
				Payload: PersistFailure{Backend: string(t.kind), Err: err},
			})
			continue
		}
		s.log.Debug().Str("backend", string(t.kind)).Str("op", op).Msg("state persisted")
	}
}

func errNonPositive(field string, v int) error {
	return fmt.Errorf("%s must be positive, got %d", field, v)
}

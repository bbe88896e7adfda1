// Package service implements the business logic of StudyMate.
//
// StudyService owns the canonical in-memory state: courses, assignments,
// notes, tests, study habits and habit logs, plus a course-by-id index that
// is rebuilt whenever the state is replaced. Callers only ever see copies.
//
// # Validation
//
// AddCourse rejects duplicate course ids. AddAssignment rejects unknown
// course references first and duplicate assignment ids second. Rejected
// calls leave the state untouched and return a *domain.Error whose kind can
// be tested with errors.Is.
//
// # Persistence
//
// After every admitting mutation the service saves the full state to the
// flat-text backend and then the document backend. Save failures are logged
// and published as EventPersistFailed; the in-memory mutation stands. The
// binary and relational backends are only used through SaveTo and LoadFrom.
//
// # Concurrency
//
// Writers are expected to be serialized by the caller. A read/write mutex
// keeps getters and StartAnalysis from observing a partially applied
// mutation. StartAnalysis copies what it needs and computes on its own
// goroutine.
package service

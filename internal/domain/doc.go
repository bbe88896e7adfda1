// Package domain defines the academic records StudyMate keeps track of.
//
// # Core Types
//
// Course is the owning entity for Assignment, Note and Test, which refer to it
// through a CourseID. StudyHabit owns HabitLog through a HabitID. None of the
// foreign-key-shaped fields are enforced here; the service layer validates
// them on admission.
//
// Snapshot aggregates all six collections and is the only value exchanged
// with the repository backends.
//
// Date is a civil calendar date. Deadlines are compared day by day, so no
// time of day or location is carried.
//
// # Errors
//
// Error pairs a failure kind (ErrDuplicateID, ErrInvalidReference,
// ErrNotFound, ErrIO, ErrDecode) with the operation and entity involved.
// Callers match kinds with errors.Is or the Is* helpers.
//
// # Design Principles
//
// - Plain value types, no pointers between entities
// - No database or external dependencies
// - Every text encoding writes dates as YYYY-MM-DD
package domain

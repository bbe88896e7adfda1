// Package relational stores the snapshot in six SQL tables, one per entity
// type.
//
// # Schema
//
//	courses       (id, name, instructor, semester, credit_hours, description)
//	assignments   (id, course_id, title, description, due_date, priority, status)
//	notes         (id, course_id, title, content, created_on)
//	tests         (id, course_id, name, test_date, max_score, score)
//	study_habits  (id, name, description, weekly_target)
//	habit_logs    (id, habit_id, log_date, amount, note)
//
// course_id and habit_id mirror the associations of the domain model but
// carry no FOREIGN KEY constraint. Dates are stored as YYYY-MM-DD text so the
// same schema works on SQLite and PostgreSQL.
//
// # Atomicity
//
// Save deletes every row and reinserts the snapshot inside one transaction.
// Any failure rolls the whole transaction back, leaving the previous data in
// place.
//
// # Drivers
//
// SQLite (modernc.org/sqlite, no cgo) is the default; PostgreSQL is reached
// through github.com/lib/pq. Queries use ? placeholders and are rebound to $n
// for PostgreSQL.
package relational

// Package repository defines the persistence contract for StudyMate.
//
// Every backend implements Repository: Save writes a full domain.Snapshot,
// replacing whatever was stored before, and Load reads it back. Load on a
// backend that has never been written returns an empty snapshot rather than
// an error, and never returns a partially populated snapshot on success.
//
// # Backends
//
// - flatfile: one comma-separated text file per entity type. Only courses
// and assignments are stored; the other collections load back empty.
// - document: one JSON (or YAML) document holding all six collections.
// - binary: a gob blob kept in a bbolt file. Not portable across versions
// of the entity definitions.
// - relational: six SQL tables rewritten inside one transaction per save.
//
// Errors are domain.Error values of kind domain.ErrIO when storage could not
// be reached and domain.ErrDecode when stored data could not be parsed.
package repository

package repository

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/domain"
)

// Repository stores and retrieves the complete application state
type Repository interface {
	// Save replaces everything the backend holds with snap
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load returns the stored state, or an empty snapshot if nothing was saved yet
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Kind identifies a backend implementation
type Kind string

const (
	KindFlatFile   Kind = "flatfile"
	KindDocument   Kind = "document"
	KindBinary     Kind = "binary"
	KindRelational Kind = "relational"
)

// Kinds lists every backend in auto-persist order followed by the explicit ones
func Kinds() []Kind {
	return []Kind{KindFlatFile, KindDocument, KindBinary, KindRelational}
}

// ParseKind parses a backend name, accepting a few common aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flatfile", "csv", "text":
		return KindFlatFile, nil
	case "document", "json", "yaml":
		return KindDocument, nil
	case "binary", "bin", "gob":
		return KindBinary, nil
	case "relational", "sql", "sqlite", "postgres":
		return KindRelational, nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

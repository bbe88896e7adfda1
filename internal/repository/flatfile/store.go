package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/fsutil"
)

// maxLineSize bounds a single record; bufio.Scanner's default of 64KiB is
// too small for long descriptions
const maxLineSize = 1 << 20

// Store keeps one entity type in one line-delimited text file
type Store[T any] struct {
	path  string
	codec RecordCodec[T]
}

// NewStore creates a store bound to path
func NewStore[T any](path string, codec RecordCodec[T]) *Store[T] {
	return &Store[T]{path: path, codec: codec}
}

// Path returns the backing file
func (s *Store[T]) Path() string {
	return s.path
}

// LoadAll reads every record. A missing file yields an empty slice; any
// malformed line fails the whole load.
func (s *Store[T]) LoadAll(ctx context.Context) ([]T, error) {
	items := []T{}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, domain.IOFailure("flatfile.Load", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++

		// surrounding whitespace (including a CR) is not part of the record
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		item, err := s.codec.Parse(line)
		if err != nil {
			return nil, domain.DecodeFailure("flatfile.Load", fmt.Errorf("%s:%d: %w", s.path, lineNo, err))
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, domain.IOFailure("flatfile.Load", fmt.Errorf("read %s: %w", s.path, err))
	}

	return items, nil
}

// SaveAll replaces the file with one line per item. A failed write leaves
// the previous contents in place.
func (s *Store[T]) SaveAll(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := fsutil.WriteFileAtomic(s.path, func(w io.Writer) error {
		for _, item := range items {
			if _, err := io.WriteString(w, s.codec.Format(item)+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.IOFailure("flatfile.Save", err)
	}

	return nil
}

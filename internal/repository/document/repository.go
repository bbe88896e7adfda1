// Package document stores the full snapshot as a single structured document.
package document

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"studymate/internal/codec"
	"studymate/internal/domain"
	"studymate/internal/fsutil"
)

// Repository writes every collection into one JSON or YAML file
type Repository struct {
	path  string
	codec codec.Codec
}

// New creates a document repository at path using c (JSON when nil)
func New(path string, c codec.Codec) *Repository {
	if c == nil {
		c = codec.NewJSONCodec()
	}
	return &Repository{path: path, codec: c}
}

// Path returns the backing file
func (r *Repository) Path() string {
	return r.path
}

// Format returns the document encoding in use
func (r *Repository) Format() string {
	return r.codec.Format()
}

// Save replaces the document with snap
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	if err := snap.CheckDates("document.Save"); err != nil {
		return err
	}

	err := fsutil.WriteFileAtomic(r.path, func(w io.Writer) error {
		return r.codec.Encode(snap, w)
	})
	if err != nil {
		return domain.IOFailure("document.Save", err)
	}
	return nil
}

// Load reads the document. A missing file yields an empty snapshot.
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, domain.IOFailure("document.Load", err)
	}
	defer f.Close()

	snap, err := r.codec.Decode(f)
	if err != nil {
		return nil, domain.DecodeFailure("document.Load", err)
	}
	return snap, nil
}

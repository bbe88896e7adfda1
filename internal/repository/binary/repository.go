// Package binary stores the full snapshot as an opaque gob blob inside a
// bbolt database file.
//
// The blob is only readable by a build with compatible entity definitions;
// there is no schema versioning.
package binary

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"studymate/internal/domain"

	"go.etcd.io/bbolt"
)

var (
	bucketName  = []byte("studymate")
	snapshotKey = []byte("snapshot")
)

// DefaultLockTimeout is how long Save and Load wait for the file lock
const DefaultLockTimeout = 5 * time.Second

// Repository keeps the snapshot blob under a fixed key. The database is
// opened and closed inside every call.
type Repository struct {
	path        string
	lockTimeout time.Duration
}

// New creates a binary repository at path
func New(path string, lockTimeout time.Duration) *Repository {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Repository{path: path, lockTimeout: lockTimeout}
}

// Path returns the backing file
func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) open(readOnly bool) (*bbolt.DB, error) {
	return bbolt.Open(r.path, 0600, &bbolt.Options{
		Timeout:  r.lockTimeout,
		ReadOnly: readOnly,
	})
}

// Save encodes snap and replaces the stored blob in one bbolt transaction
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	if err := snap.CheckDates("binary.Save"); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return domain.IOFailure("binary.Save", fmt.Errorf("encode snapshot: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return domain.IOFailure("binary.Save", fmt.Errorf("create dir: %w", err))
	}

	db, err := r.open(false)
	if err != nil {
		return domain.IOFailure("binary.Save", fmt.Errorf("open %s: %w", r.path, err))
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, buf.Bytes())
	})
	if err != nil {
		return domain.IOFailure("binary.Save", err)
	}

	return nil
}

// Load decodes the stored blob. A missing file or key yields an empty snapshot.
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}

	db, err := r.open(true)
	if err != nil {
		if errors.Is(err, bbolt.ErrInvalid) || errors.Is(err, bbolt.ErrVersionMismatch) || errors.Is(err, bbolt.ErrChecksum) {
			return nil, domain.DecodeFailure("binary.Load", fmt.Errorf("open %s: %w", r.path, err))
		}
		return nil, domain.IOFailure("binary.Load", fmt.Errorf("open %s: %w", r.path, err))
	}
	defer db.Close()

	var blob []byte
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		// the value is only valid for the life of the transaction
		if v := b.Get(snapshotKey); v != nil {
			blob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, domain.IOFailure("binary.Load", err)
	}
	if blob == nil {
		return domain.NewSnapshot(), nil
	}

	var snap domain.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&snap); err != nil {
		return nil, domain.DecodeFailure("binary.Load", err)
	}
	return snap.Normalize(), nil
}

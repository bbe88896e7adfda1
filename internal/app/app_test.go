package app

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymate/internal/config"
	"studymate/internal/domain"
	"studymate/internal/fsutil"
	"studymate/internal/repository"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := NewLogger(&bytes.Buffer{}, tt.level, false)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", false)
	log.Info().Str("backend", "flatfile").Msg("saved")
	log.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"backend":"flatfile"`)
	assert.Contains(t, out, `"message":"saved"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewRejectsUnknownDocumentFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Document.Format = "xml"

	_, err := New(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestAppAutoPersistAndExplicitBackends(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	svc := a.Service
	require.NoError(t, svc.AddCourse(ctx, domain.Course{ID: 101, Name: "Algorithms", Instructor: "Knuth", Semester: "Fall", CreditHours: 4}))
	require.NoError(t, svc.AddAssignment(ctx, domain.Assignment{
		ID: 1, CourseID: 101, Title: "Sorting", DueDate: domain.NewDate(2026, time.November, 2), Priority: 1, Status: domain.StatusPending,
	}))

	assert.True(t, fsutil.Exists(cfg.ResolvePath(cfg.FlatFile.Courses)))
	assert.True(t, fsutil.Exists(cfg.ResolvePath(cfg.Document.Path)))
	assert.False(t, fsutil.Exists(cfg.RelationalDSN()), "database is opened lazily")

	for _, kind := range []repository.Kind{repository.KindBinary, repository.KindRelational} {
		require.NoError(t, svc.SaveTo(ctx, kind), kind)
	}
	assert.True(t, fsutil.Exists(cfg.RelationalDSN()))

	svc.Restore(domain.NewSnapshot())
	require.NoError(t, svc.LoadFrom(ctx, repository.KindRelational))
	require.Len(t, svc.Assignments(), 1)

	svc.Restore(domain.NewSnapshot())
	require.NoError(t, svc.LoadFrom(ctx, repository.KindBinary))
	c, ok := svc.CourseByID(101)
	require.True(t, ok)
	assert.Equal(t, "Algorithms", c.Name)

	// A fresh app sees the auto-persisted flat files.
	b, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Service.LoadInitial(ctx))
	assert.Len(t, b.Service.Courses(), 1)
	assert.Len(t, b.Service.Assignments(), 1)
}

func TestLogEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf safeBuffer
	cfg := testConfig(t)
	a, err := New(cfg, NewLogger(&buf, "debug", false))
	require.NoError(t, err)
	defer a.Close()

	a.LogEvents(ctx)
	require.NoError(t, a.Service.AddCourse(ctx, domain.Course{ID: 1, Name: "Physics", CreditHours: 3}))

	assert.Eventually(t, func() bool {
		return bytes.Contains(buf.Bytes(), []byte(`"event":"course_added"`))
	}, time.Second, 10*time.Millisecond)
}

// safeBuffer is a bytes.Buffer guarded for concurrent writers.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

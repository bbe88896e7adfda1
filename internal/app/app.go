// Package app wires configuration, logging, storage backends and the study
// service together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"studymate/internal/codec"
	"studymate/internal/config"
	"studymate/internal/domain"
	"studymate/internal/repository"
	"studymate/internal/repository/binary"
	"studymate/internal/repository/document"
	"studymate/internal/repository/flatfile"
	"studymate/internal/repository/relational"
	"studymate/internal/service"
)

// App holds the wired application.
type App struct {
	Service *service.StudyService
	Events  *service.EventBus

	logger     zerolog.Logger
	config     *config.Config
	relational *lazyRelational
}

// New builds every backend from cfg and a service that auto-persists to the
// flat-text and document backends. The relational database is opened on
// first use.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	docCodec, err := codec.ForFormat(cfg.Document.Format)
	if err != nil {
		return nil, fmt.Errorf("document backend: %w", err)
	}

	flat := flatfile.New(
		cfg.ResolvePath(cfg.FlatFile.Courses),
		cfg.ResolvePath(cfg.FlatFile.Assignments),
	)
	doc := document.New(cfg.ResolvePath(cfg.Document.Path), docCodec)
	bin := binary.New(cfg.ResolvePath(cfg.Binary.Path), cfg.Binary.LockTimeout.Duration())
	rel := &lazyRelational{driver: cfg.Relational.Driver, dsn: cfg.RelationalDSN()}

	events := service.NewEventBus()
	svc := service.New(service.Options{
		FlatFile: flat,
		Document: doc,
		Backends: map[repository.Kind]repository.Repository{
			repository.KindBinary:     bin,
			repository.KindRelational: rel,
		},
		Events: events,
		Logger: log,
	})

	log.Debug().
		Str("courses", flat.CoursesPath()).
		Str("document", doc.Path()).
		Str("binary", bin.Path()).
		Str("sql_driver", cfg.Relational.Driver).
		Msg("backends configured")

	return &App{
		Service:    svc,
		Events:     events,
		logger:     log,
		config:     cfg,
		relational: rel,
	}, nil
}

// LogEvents logs every published service event at debug level until ctx is
// done.
func (a *App) LogEvents(ctx context.Context) {
	ch := make(chan service.Event, 64)
	a.Events.Subscribe(ch)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				a.logger.Debug().Str("event", string(ev.Type)).Interface("payload", ev.Payload).Msg("service event")
			}
		}
	}()
}

// Close releases the database connection if one was opened.
func (a *App) Close() error {
	return a.relational.Close()
}

// lazyRelational opens the relational repository on first Save or Load so
// commands that never touch SQL do not create a database.
type lazyRelational struct {
	driver string
	dsn    string

	mu   sync.Mutex
	repo *relational.Repository
}

func (l *lazyRelational) get(ctx context.Context) (*relational.Repository, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.repo != nil {
		return l.repo, nil
	}
	if l.dsn == "" {
		return nil, domain.IOFailure("relational.Open", errors.New("no dsn configured"))
	}
	if err := ensureParentDir(l.driver, l.dsn); err != nil {
		return nil, domain.IOFailure("relational.Open", err)
	}
	repo, err := relational.Open(ctx, l.driver, l.dsn)
	if err != nil {
		return nil, err
	}
	l.repo = repo
	return repo, nil
}

func (l *lazyRelational) Save(ctx context.Context, snap *domain.Snapshot) error {
	repo, err := l.get(ctx)
	if err != nil {
		return err
	}
	return repo.Save(ctx, snap)
}

func (l *lazyRelational) Load(ctx context.Context) (*domain.Snapshot, error) {
	repo, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return repo.Load(ctx)
}

func (l *lazyRelational) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.repo == nil {
		return nil
	}
	err := l.repo.Close()
	l.repo = nil
	return err
}

// ensureParentDir creates the directory of a SQLite database file.
func ensureParentDir(driver, dsn string) error {
	if driver != relational.DriverSQLite || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path, _, _ := strings.Cut(dsn, "?")
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.config
}

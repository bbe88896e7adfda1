// Command studymate manages courses, assignments and study habits from the
// command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"studymate/internal/app"
	"studymate/internal/config"
	"studymate/internal/repository"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "studymate:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("studymate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file path (default: search standard locations)")
	from := fs.String("from", "", "backend to load state from at start-up (default: document, or flatfile when the document is empty)")
	logLevel := fs.String("log-level", "", "override logging.level")
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no command given")
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	log := app.NewLogger(stderr, cfg.Logging.Level, cfg.Logging.Pretty)
	if path != "" {
		log.Debug().Str("path", path).Msg("config loaded")
	}

	name, cmdArgs := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	if cmd.noState {
		return cmd.run(&env{cfg: cfg, configPath: path, stdout: stdout, stderr: stderr, log: log}, cmdArgs)
	}

	source := repository.KindDocument
	if *from != "" {
		if source, err = repository.ParseKind(*from); err != nil {
			return err
		}
	}

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close backends")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	application.LogEvents(ctx)

	if err := loadState(ctx, application, source, *from == ""); err != nil {
		// Start with empty state rather than refusing to run.
		log.Warn().Err(err).Str("backend", string(source)).Msg("could not load saved state")
	}

	return cmd.run(&env{
		ctx:        ctx,
		cfg:        cfg,
		configPath: path,
		svc:        application.Service,
		source:     source,
		stdout:     stdout,
		stderr:     stderr,
		log:        log,
	}, cmdArgs)
}

// loadState restores the service from source. With fallback set, an empty
// document means no full snapshot was ever written, so the flat-text course
// and assignment files are read instead.
func loadState(ctx context.Context, a *app.App, source repository.Kind, fallback bool) error {
	if source == repository.KindFlatFile {
		return a.Service.LoadInitial(ctx)
	}
	if err := a.Service.LoadFrom(ctx, source); err != nil {
		return err
	}
	if fallback && a.Service.Snapshot().IsEmpty() {
		return a.Service.LoadInitial(ctx)
	}
	return nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: studymate [flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/bulletin/internal/executor"
	"github.com/starford/bulletin/internal/journal"
	"github.com/starford/bulletin/internal/models"
	"github.com/starford/bulletin/internal/noticeservice"
	"github.com/starford/bulletin/internal/render"
	"github.com/starford/bulletin/internal/repo"
	"github.com/starford/bulletin/internal/storage"
	"github.com/starford/bulletin/internal/watch"
	pkgconfig "github.com/starford/bulletin/pkg/config"
)

// ShowOptions controls the show and watch commands.
type ShowOptions = noticeservice.ShowOptions

// App is bulletin opened against one repository.
type App struct {
	root    string
	config  *Config
	logger  *slog.Logger
	stdout  io.Writer
	store   *storage.FS
	journal *journal.DB
	git     *repo.Git
	service *noticeservice.Service
}

// Open locates the repository root, loads configuration and wires the
// store, journal, renderer and executor.
func Open(_ context.Context, opts ...Option) (*App, error) {
	app := &application{
		workDir: ".",
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		opener:  executor.OpenTerminal,
	}
	for _, opt := range opts {
		opt(app)
	}

	root, err := repo.FindRoot(app.workDir)
	if err != nil {
		return nil, err
	}

	cfg := app.config
	if cfg == nil {
		cfg = NewDefaultConfig()
		path := app.configPath
		if path == "" {
			path = cfg.Notices.ConfigPath(root)
		}
		if err := pkgconfig.LoadOptional(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if app.verbose {
		cfg.App.LogLevel = slog.LevelDebug
	}

	logger := NewLogger(app.stderr, cfg.App.LogLevel)
	logger.Debug("configuration loaded",
		slog.String("root", root),
		slog.String("dir", cfg.Notices.Dir),
		slog.Bool("journal", cfg.Journal.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Notices.NoticesDir(root), cfg.Notices.SeenPath(root))
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	a := &App{
		root:   root,
		config: cfg,
		logger: logger,
		stdout: app.stdout,
		store:  store,
		git:    repo.NewGit(root),
	}

	execOpts := []executor.Option{
		executor.WithOutput(app.stdout),
		executor.WithChannelOpener(app.opener),
		executor.WithLogger(logger),
	}
	var svcOpts []noticeservice.Option
	if db := a.openJournal(); db != nil {
		a.journal = db
		execOpts = append(execOpts, executor.WithRecorder(db))
		svcOpts = append(svcOpts, noticeservice.WithHistory(db))
	}
	svcOpts = append(svcOpts, noticeservice.WithLogger(logger))

	runner := executor.NewShellRunner(cfg.Exec.Shell)
	runner.Stdout = app.stdout
	runner.Stderr = app.stderr

	a.service = noticeservice.NewService(store,
		render.New(app.stdout),
		executor.New(root, runner, execOpts...),
		svcOpts...)
	return a, nil
}

// openJournal opens the journal when it is enabled and the bulletin
// directory already exists. Failures only disable the journal.
func (a *App) openJournal() *journal.DB {
	if !a.config.Journal.Enabled {
		return nil
	}
	base := a.config.Notices.Base(a.root)
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		a.logger.Debug("journal: bulletin directory missing, journal disabled", slog.String("dir", base))
		return nil
	}
	db, err := journal.Open(a.config.Journal.Resolve(base))
	if err != nil {
		a.logger.Warn("journal: open failed, continuing without journal", slog.String("error", err.Error()))
		return nil
	}
	return db
}

// Root returns the repository root.
func (a *App) Root() string {
	return a.root
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the journal.
func (a *App) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// Show displays notices per opts. Config auto_run also enables auto-run.
func (a *App) Show(ctx context.Context, opts ShowOptions) (int, error) {
	opts.AutoRun = opts.AutoRun || a.config.Exec.AutoRun
	return a.service.Show(ctx, opts)
}

// Create stores a new notice. An empty author defaults to the git user.
func (a *App) Create(ctx context.Context, content, author string) (*models.Notice, error) {
	if author == "" {
		author = a.defaultAuthor(ctx)
	}
	n, err := a.service.Create(ctx, content, author)
	if err != nil {
		return nil, err
	}
	a.logger.Info("notice created", slog.String("id", n.ID), slog.String("author", n.Author))
	return n, nil
}

func (a *App) defaultAuthor(ctx context.Context) string {
	name, err := a.git.UserName(ctx)
	if err == nil {
		return name
	}
	a.logger.Debug("create: git user.name unavailable", slog.String("error", err.Error()))
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// History prints up to limit journal entries.
func (a *App) History(ctx context.Context, limit int) error {
	return a.service.History(ctx, limit)
}

// Watch shows unseen notices now and again whenever notice files change,
// until ctx is cancelled or the process receives SIGINT or SIGTERM.
func (a *App) Watch(ctx context.Context, opts ShowOptions) error {
	opts.Count = 0
	show := func(ctx context.Context) {
		if _, err := a.Show(ctx, opts); err != nil {
			a.logger.Error("watch: show failed", slog.String("error", err.Error()))
		}
	}
	show(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(gCtx, a.store.Dir(), watch.DefaultDebounce, a.logger, show)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Info("watch: received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Package noticeservice wires the tracker, renderer and executor into the
// show and create flows.
package noticeservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/bulletin/internal/executor"
	"github.com/starford/bulletin/internal/models"
	"github.com/starford/bulletin/internal/parser"
	"github.com/starford/bulletin/internal/render"
	"github.com/starford/bulletin/internal/storage"
	"github.com/starford/bulletin/internal/tracker"
)

// ErrNoJournal is returned by History when no journal is configured.
var ErrNoJournal = errors.New("execution journal is disabled")

// HistorySource lists journal entries.
type HistorySource interface {
	List(ctx context.Context, limit int) ([]models.Execution, error)
}

// ShowOptions controls a show run.
type ShowOptions struct {
	// Count, when positive, shows the Count most recent notices whether or
	// not they were seen. Otherwise only unseen notices are shown.
	Count int
	// AutoRun executes embedded commands without asking.
	AutoRun bool
}

// Service coordinates storage, seen state and presentation.
type Service struct {
	store    storage.Provider
	tracker  *tracker.Tracker
	renderer *render.Renderer
	executor *executor.Executor
	history  HistorySource
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithHistory attaches the execution journal.
func WithHistory(h HistorySource) Option {
	return func(s *Service) { s.history = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now for new notices.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a notice service.
func NewService(store storage.Provider, r *render.Renderer, ex *executor.Executor, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tracker:  tracker.New(store),
		renderer: r,
		executor: ex,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show displays the relevant notices, resolves their embedded commands and
// marks every displayed notice as seen. It returns how many were shown.
func (s *Service) Show(ctx context.Context, opts ShowOptions) (int, error) {
	applied, err := s.tracker.Reconcile()
	if err != nil {
		return 0, err
	}
	if applied {
		s.logger.Debug("show: first run, older notices marked seen")
	}

	var notices []models.Notice
	if opts.Count > 0 {
		notices, err = s.tracker.Latest(opts.Count)
	} else {
		notices, err = s.tracker.ListUnseen()
	}
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(notices))
	for _, n := range notices {
		if err := s.renderer.Notice(n); err != nil {
			return 0, err
		}
		results := s.executor.Run(ctx, executor.Batch{
			NoticeID: n.ID,
			Commands: parser.Commands(n.Content),
			AutoRun:  opts.AutoRun,
		})
		s.logger.Debug("show: notice displayed",
			slog.String("id", n.ID), slog.Int("commands", len(results)))
		ids = append(ids, n.ID)
	}

	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.tracker.MarkSeen(ids...); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}

// Create stores a new notice whose id is derived from the current time.
func (s *Service) Create(_ context.Context, content, author string) (*models.Notice, error) {
	now := s.now().UTC()
	n := models.Notice{
		ID:      now.Format(models.IDLayout),
		Content: strings.TrimSpace(content),
		Author:  strings.TrimSpace(author),
		Date:    now,
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("invalid notice: %w", err)
	}
	if err := s.store.Create(n); err != nil {
		return nil, err
	}
	return &n, nil
}

// History renders up to limit journal entries.
func (s *Service) History(ctx context.Context, limit int) error {
	if s.history == nil {
		return ErrNoJournal
	}
	entries, err := s.history.List(ctx, limit)
	if err != nil {
		return err
	}
	return s.renderer.History(entries)
}

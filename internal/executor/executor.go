// Package executor resolves and runs the commands embedded in a notice.
//
// Commands are handled strictly in order. Each one is either run directly
// (auto-run), or confirmed on an interactive channel first. When no channel
// can be obtained every command is skipped without prompting.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/starford/bulletin/internal/models"
)

// Runner runs a single shell command in dir and returns its exit code.
// A non-nil error means the command could not be run at all.
type Runner interface {
	Run(ctx context.Context, dir, command string) (int, error)
}

// Recorder receives every resolved command.
type Recorder interface {
	Record(ctx context.Context, e models.Execution) error
}

// Batch is the ordered set of commands found in one notice.
type Batch struct {
	NoticeID string
	Commands []string
	AutoRun  bool
}

// Executor drives the confirm-then-run flow for a batch of commands.
type Executor struct {
	dir      string
	runner   Runner
	open     ChannelOpener
	out      io.Writer
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithChannelOpener replaces the terminal channel lookup.
func WithChannelOpener(open ChannelOpener) Option {
	return func(e *Executor) { e.open = open }
}

// WithOutput sets where status lines such as "Executing: ..." are written.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.out = w }
}

// WithRecorder attaches a journal.
func WithRecorder(r Recorder) Option {
	return func(e *Executor) { e.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an executor that runs commands in dir, normally the
// repository root.
func New(dir string, runner Runner, opts ...Option) *Executor {
	e := &Executor{
		dir:    dir,
		runner: runner,
		open:   OpenTerminal,
		out:    os.Stdout,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run resolves every command of b in order and returns one Execution per
// command. Failures of individual commands are reported to the output and
// never abort the batch.
func (e *Executor) Run(ctx context.Context, b Batch) []models.Execution {
	if len(b.Commands) == 0 {
		return nil
	}
	results := make([]models.Execution, 0, len(b.Commands))

	var ch Channel
	if !b.AutoRun {
		c, err := e.open()
		if err != nil {
			e.logger.Debug("executor: no interactive channel, skipping commands",
				slog.String("notice", b.NoticeID),
				slog.Int("commands", len(b.Commands)),
				slog.String("reason", err.Error()))
			for _, cmd := range b.Commands {
				res := e.skipped(b.NoticeID, cmd)
				e.record(ctx, res)
				results = append(results, res)
			}
			return results
		}
		ch = c
		defer func() {
			if err := ch.Close(); err != nil {
				e.logger.Warn("executor: close channel failed", slog.String("error", err.Error()))
			}
		}()
	}

	for _, cmd := range b.Commands {
		var res models.Execution
		if b.AutoRun {
			res = e.execute(ctx, b.NoticeID, cmd, true)
		} else {
			ok, err := ch.Confirm(ctx, cmd)
			if err != nil {
				e.logger.Debug("executor: prompt cancelled",
					slog.String("command", cmd), slog.String("error", err.Error()))
				ok = false
			}
			if ok {
				res = e.execute(ctx, b.NoticeID, cmd, false)
			} else {
				res = e.skipped(b.NoticeID, cmd)
			}
		}
		e.record(ctx, res)
		results = append(results, res)
	}
	return results
}

func (e *Executor) execute(ctx context.Context, noticeID, cmd string, auto bool) models.Execution {
	fmt.Fprintf(e.out, "Executing: %s\n", cmd)
	start := e.now()
	code, err := e.runner.Run(ctx, e.dir, cmd)
	res := models.Execution{
		NoticeID:  noticeID,
		Command:   cmd,
		State:     models.StateExecuted,
		AutoRun:   auto,
		ExitCode:  code,
		StartedAt: start,
		Duration:  e.now().Sub(start),
	}
	switch {
	case err != nil:
		res.Error = err.Error()
		fmt.Fprintf(e.out, "Command failed: %s: %v\n", cmd, err)
	case code != 0:
		fmt.Fprintf(e.out, "Command failed (exit %d): %s\n", code, cmd)
	}
	return res
}

func (e *Executor) skipped(noticeID, cmd string) models.Execution {
	return models.Execution{
		NoticeID:  noticeID,
		Command:   cmd,
		State:     models.StateSkipped,
		StartedAt: e.now(),
	}
}

func (e *Executor) record(ctx context.Context, res models.Execution) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, res); err != nil {
		e.logger.Warn("executor: journal record failed",
			slog.String("command", res.Command), slog.String("error", err.Error()))
	}
}

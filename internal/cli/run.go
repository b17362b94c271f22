package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel"

	"github.com/petrijr/pointer"
	"github.com/petrijr/pointer/internal/audio"
	"github.com/petrijr/pointer/internal/scenario"
	"github.com/petrijr/pointer/internal/scripting"
	"github.com/petrijr/pointer/internal/telemetry"
	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
	"github.com/petrijr/pointer/pkg/surface/term"
	"github.com/petrijr/pointer/pkg/worker"
)

const frameInterval = 16 * time.Millisecond

func newRunCommand() command {
	return command{
		name:        "run",
		description: "Play a scenario (.yaml) or script (.tengo) in the terminal",
		configure: func(fs *flag.FlagSet) {
			fs.String("scenario", "", "Scenario or script to play (may also be the first argument)")
			fs.String("journal", "", "SQLite journal file (overrides POINTER_JOURNAL_PATH)")
			fs.String("inbox", "", "SQLite task inbox to accept remote commands from (overrides POINTER_INBOX_PATH)")
			fs.String("redis", "", "Redis address of a task inbox, used instead of -inbox (overrides POINTER_INBOX_REDIS_ADDR)")
			fs.Bool("no-watch", false, "Do not reload the file when it changes")
			fs.Bool("beep", false, "Play a tone on every click (overrides POINTER_BEEP)")
		},
		run: runDemo,
	}
}

// newScreen is replaced in tests.
var newScreen = tcell.NewScreen

func runDemo(fs *flag.FlagSet, args []string, app *AppContext, stdout io.Writer, stderr io.Writer) error {
	cfg := app.Config
	logger := app.Logger

	path := stringFlag(fs, "scenario")
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if err := checkPlayable(path); err != nil {
		return err
	}
	journalPath := firstNonEmpty(stringFlag(fs, "journal"), cfg.JournalPath)
	inbox := inboxTarget{
		redisAddr: firstNonEmpty(stringFlag(fs, "redis"), cfg.InboxRedisAddr),
		path:      firstNonEmpty(stringFlag(fs, "inbox"), cfg.InboxPath),
	}
	watch := cfg.Watch && !boolFlag(fs, "no-watch")
	beep := cfg.Beep || boolFlag(fs, "beep")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "pointerdemo",
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing_shutdown_failed", slog.Any("error", err))
		}
	}()

	observers := []pointer.Observer{
		pointer.NewLoggingObserver(logger),
		pointer.NewTracingObserver(otel.Tracer("github.com/petrijr/pointer")),
	}
	if journalPath != "" {
		db, err := openSQLite(journalPath)
		if err != nil {
			return err
		}
		defer db.Close()
		journal, err := pointer.NewSQLiteJournal(db, logger, nil)
		if err != nil {
			return err
		}
		observers = append(observers, journal.Observer)
	}

	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	var onFlash func(api.Element)
	if beep {
		clicker := audio.NewClicker()
		if err := clicker.Initialize(); err != nil {
			logger.Warn("audio_unavailable", slog.Any("error", err))
		} else {
			defer clicker.Close()
			onFlash = func(api.Element) { clicker.Click() }
		}
	}

	loop := pointer.NewEventLoop(logger)
	surf := term.New(screen, term.Options{OnFlash: onFlash})
	stage := pointer.NewStage(surf, pointer.StageOptions{
		Scheduler:     loop,
		Observer:      pointer.NewCompositeObserver(observers...),
		Logger:        logger,
		Timings:       cfg.Timings(),
		PauseStrategy: cfg.Strategy(),
		Context:       ctx,
	})

	l := newLoader(ctx, stage, surf.Document, logger, path)
	loop.Post(l.load)

	if err := stage.Start(ctx); err != nil {
		return err
	}
	defer stage.Stop()

	if watch {
		w, err := scenario.NewWatcher(cfg.WatchDebounce, filepath.Dir(path))
		if err != nil {
			logger.Warn("watch_unavailable", slog.Any("error", err))
		} else {
			defer w.Close()
			go forwardChanges(ctx, w, path, loop, l.load, logger)
		}
	}

	if inbox.configured() {
		q, closeInbox, err := openInbox(ctx, inbox, logger)
		if err != nil {
			return err
		}
		defer closeInbox()
		wk := worker.NewWithConfig(stage, q, logger, worker.Config{
			MaxAttempts: 5,
			Backoff:     250 * time.Millisecond,
		})
		go func() {
			if err := wk.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("inbox_stopped", slog.Any("error", err))
			}
		}()
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			loop.Post(func() {
				if !surf.HandleEvent(ev) {
					cancel()
				}
			})
		}
	}()

	logger.Info("demo_started",
		slog.String("path", path),
		slog.Bool("watch", watch),
		slog.Bool("journal", journalPath != ""),
		slog.String("inbox", inbox.String()),
	)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			loop.Post(func() {
				surf.Tick(time.Now())
				surf.Draw()
			})
		}
	}
}

func checkPlayable(path string) error {
	if path == "" {
		return errors.New("run: a scenario or script path is required")
	}
	if !scenario.IsScenarioFile(path) && !scenario.IsScriptFile(path) {
		return fmt.Errorf("run: %s is neither a scenario (.yaml) nor a script (.tengo)", path)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loader plays the demo file on a stage. load must run on the stage's
// scheduler.
type loader struct {
	ctx     context.Context
	path    string
	player  *scenario.Player
	runtime *scripting.Runtime
	logger  *slog.Logger
}

func newLoader(ctx context.Context, stage *pointer.Stage, doc *memdoc.Document, logger *slog.Logger, path string) *loader {
	return &loader{
		ctx:     ctx,
		path:    path,
		player:  scenario.NewPlayer(stage, doc, logger),
		runtime: scripting.New(stage, doc, logger),
		logger:  logger,
	}
}

// load replays the file from the start. Failures are logged and leave the
// stage as it was.
func (l *loader) load() {
	if err := l.reload(); err != nil {
		l.logger.Error("load_failed", slog.String("path", l.path), slog.Any("error", err))
	}
}

func (l *loader) reload() error {
	if scenario.IsScriptFile(l.path) {
		return l.runtime.Replay(l.ctx, l.path)
	}
	s, err := scenario.Load(l.path)
	if err != nil {
		return err
	}
	return l.player.Apply(s)
}

// forwardChanges posts fn whenever the watcher reports path.
func forwardChanges(ctx context.Context, w *scenario.Watcher, path string, sched pointer.Scheduler, fn func(), logger *slog.Logger) {
	want, _ := filepath.Abs(path)
	for {
		select {
		case <-ctx.Done():
			return
		case changed, ok := <-w.Events:
			if !ok {
				return
			}
			if got, _ := filepath.Abs(changed); got != want {
				continue
			}
			logger.Info("reloading", slog.String("path", path))
			sched.Post(fn)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watch_error", slog.Any("error", err))
		}
	}
}

package pointer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Stage bundles a Surface, a Scheduler and a Registry to host the actors of
// one document.
//
// Typical usage:
//
//	stage := pointer.NewStage(surface, pointer.StageOptions{})
//	guide := stage.NewActor(pointer.Options{ID: "guide"})
//	guide.Show().Move(pointer.To("#signup")).PulsateUntilClicked()
//
//	_ = stage.Start(ctx)
//	...
//	stage.Stop()
type Stage struct {
	// Surface is shared by every actor on the stage.
	Surface Surface

	// Scheduler runs every actor's queue.
	Scheduler Scheduler

	// Registry holds the actors created through the stage.
	Registry *Registry

	defaults StageOptions
	create   sync.Mutex

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// StageOptions configures a Stage and the defaults for its actors.
type StageOptions struct {
	// Scheduler defaults to a new EventLoop.
	Scheduler Scheduler

	Observer      Observer
	Logger        *slog.Logger
	Timings       Timings
	PauseStrategy PauseStrategy
	Context       context.Context
}

// NewStage constructs a Stage on surface.
func NewStage(surface Surface, opts StageOptions) *Stage {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewEventLoop(opts.Logger)
	}
	return &Stage{
		Surface:   surface,
		Scheduler: opts.Scheduler,
		Registry:  NewRegistry(),
		defaults:  opts,
	}
}

// NewActor returns the actor registered under opts.ID, creating it with the
// stage defaults if it does not exist yet. Fields left empty in opts are
// taken from the stage.
func (s *Stage) NewActor(opts Options) *Actor {
	s.create.Lock()
	defer s.create.Unlock()

	if opts.ID != "" {
		if a, err := s.Registry.Get(opts.ID); err == nil {
			return a
		}
	}
	if opts.Observer == nil {
		opts.Observer = s.defaults.Observer
	}
	if opts.Logger == nil {
		opts.Logger = s.defaults.Logger
	}
	if opts.Timings == (Timings{}) {
		opts.Timings = s.defaults.Timings
	}
	if opts.PauseStrategy == PauseDefault {
		opts.PauseStrategy = s.defaults.PauseStrategy
	}
	if opts.Context == nil {
		opts.Context = s.defaults.Context
	}

	a := NewActor(s.Surface, s.Scheduler, opts)
	// Ids are checked above under s.create, so this only fails for actors
	// registered directly on the Registry.
	if err := s.Registry.Register(a); err != nil {
		s.defaults.Logger.Warn("stage_register_failed",
			slog.String("actor_id", a.ID()),
			slog.Any("error", err),
		)
	}
	return a
}

// Actor returns the actor with the given id.
func (s *Stage) Actor(id string) (*Actor, error) {
	return s.Registry.Get(id)
}

// Actors returns every actor on the stage ordered by id.
func (s *Stage) Actors() []*Actor {
	return s.Registry.List()
}

// Remove closes and forgets the actor with the given id.
func (s *Stage) Remove(id string) bool {
	a, ok := s.Registry.Remove(id)
	if ok {
		a.Close()
	}
	return ok
}

// ResetAll resets every actor on the stage.
func (s *Stage) ResetAll() {
	for _, a := range s.Registry.List() {
		a.Reset()
	}
}

// Start runs the stage's scheduler in a background goroutine. It fails if
// the stage is already running or its scheduler has no Run method, as is
// the case for a VirtualLoop.
func (s *Stage) Start(ctx context.Context) error {
	loop, ok := s.Scheduler.(interface {
		Run(ctx context.Context) error
	})
	if !ok {
		return errors.New("pointer: stage scheduler cannot be started")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("pointer: stage already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := loop.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.defaults.Logger.Error("stage_scheduler_stopped", slog.Any("error", err))
		}
	}()
	return nil
}

// Stop cancels the scheduler goroutine started by Start and waits for it
// to exit.
func (s *Stage) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

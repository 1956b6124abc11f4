package fractal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle of a Supervisor.
type State uint8

const (
	StateIdle State = iota
	StateRendering
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// waitPollInterval is how often Wait polls.
const waitPollInterval = 10 * time.Millisecond

// Result is a published render.
type Result struct {
	ID      uint64 // 0 for the blank result present before any render
	Canvas  *Canvas
	Params  Parameters
	Stats   Stats
	Elapsed time.Duration
}

// renderTask owns one background pass and, once done is closed, its result.
type renderTask struct {
	id      uint64
	params  Parameters
	canvas  *Canvas
	stats   Stats
	elapsed time.Duration
	err     error
	done    chan struct{}
}

func (t *renderTask) run(src WordSource) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("%w: render %d: %v", ErrRenderFailed, t.id, r)
		}
	}()

	start := time.Now()
	t.stats = Render(t.params, src, t.canvas)
	t.elapsed = time.Since(start)
}

// Option configures a Supervisor.
type Option func(*supervisorOptions)

type supervisorOptions struct {
	pool        Pool
	maxInFlight int
	newSource   func() WordSource
	onComplete  func(Result)
	initial     Parameters
}

// WithPool runs renders on pool instead of a private WorkerPool.
func WithPool(pool Pool) Option {
	return func(o *supervisorOptions) {
		o.pool = pool
	}
}

// WithMaxInFlight bounds the private WorkerPool. Ignored with WithPool.
func WithMaxInFlight(n int) Option {
	return func(o *supervisorOptions) {
		o.maxInFlight = n
	}
}

// WithSourceFactory sets where each render draws its random words from.
// The factory is called once per StartRender, on the caller's goroutine.
func WithSourceFactory(fn func() WordSource) Option {
	return func(o *supervisorOptions) {
		o.newSource = fn
	}
}

// WithOnComplete registers the render-complete signal. It is called from
// Poll, on the polling goroutine, once per published result, after Poll has
// updated the supervisor's state. It may call StartRender.
func WithOnComplete(fn func(Result)) Option {
	return func(o *supervisorOptions) {
		o.onComplete = fn
	}
}

// WithInitialParameters sets the parameters reported by the blank result.
func WithInitialParameters(p Parameters) Option {
	return func(o *supervisorOptions) {
		o.initial = p
	}
}

// Supervisor runs renders in the background and publishes them when polled.
//
// Starting a render never cancels or replaces one already in flight. Each
// task is published by the first Poll that sees it finished, so with
// overlapping renders the last to finish wins, not the last to start.
//
// A Supervisor is owned by one foreground loop and is not safe for
// concurrent use.
type Supervisor struct {
	width, height int

	pool       Pool
	ownPool    *WorkerPool
	newSource  func() WordSource
	onComplete func(Result)

	tasks   []*renderTask
	current Result
	state   State
	nextID  uint64
}

// NewSupervisor returns an idle supervisor for width×height canvases.
func NewSupervisor(width, height int, opts ...Option) *Supervisor {
	o := supervisorOptions{
		newSource: NewRandomSource,
		initial:   DefaultParameters(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Supervisor{
		width:      width,
		height:     height,
		pool:       o.pool,
		newSource:  o.newSource,
		onComplete: o.onComplete,
		current: Result{
			Canvas: NewCanvas(width, height),
			Params: o.initial,
		},
	}
	if s.pool == nil {
		s.ownPool = NewWorkerPool(o.maxInFlight)
		s.pool = s.ownPool
	}
	return s
}

// StartRender submits a render of p on a fresh canvas. It is allowed in any
// state. The returned error wraps ErrSubmit when the pool refuses the task;
// nothing is retried.
func (s *Supervisor) StartRender(p Parameters) error {
	if err := p.Validate(); err != nil {
		Logger().Warn("rendering with questionable parameters", "err", err, "words", p.Words())
	}

	s.nextID++
	t := &renderTask{
		id:     s.nextID,
		params: p,
		canvas: NewCanvas(s.width, s.height),
		done:   make(chan struct{}),
	}
	src := s.newSource()
	if err := s.pool.Go(func() { t.run(src) }); err != nil {
		return fmt.Errorf("%w: render %d: %w", ErrSubmit, t.id, err)
	}

	s.tasks = append(s.tasks, t)
	s.state = StateRendering
	Logger().Info("render task created", "render", t.id, "pending", len(s.tasks), "params", p.String())
	return nil
}

// Poll publishes every render that has finished since the last call and
// returns immediately otherwise. It reports whether anything was published.
// Failed renders are dropped and returned as errors wrapping ErrRenderFailed.
func (s *Supervisor) Poll() (bool, error) {
	var (
		completed []Result
		errs      []error
	)
	tasks := s.tasks
	s.tasks = nil
	for _, t := range tasks {
		select {
		case <-t.done:
		default:
			s.tasks = append(s.tasks, t)
			continue
		}

		if t.err != nil {
			Logger().Warn("render failed", "render", t.id, "err", t.err)
			errs = append(errs, t.err)
			continue
		}

		t.canvas.Finalize()
		s.current = Result{
			ID:      t.id,
			Canvas:  t.canvas,
			Params:  t.params,
			Stats:   t.stats,
			Elapsed: t.elapsed,
		}
		completed = append(completed, s.current)
		Logger().Info("render complete", "render", t.id, "elapsed", t.elapsed, "plotted", t.stats.Plotted)
		Logger().Debug("render accounting", "render", t.id, "words", t.stats.Words, "dropped", t.stats.Dropped)
	}

	published := len(completed) > 0
	switch {
	case len(s.tasks) > 0:
		s.state = StateRendering
	case published:
		s.state = StateReady
	default:
		s.state = StateIdle
	}

	// State is settled before the hook runs; the hook may start a render.
	if s.onComplete != nil {
		for _, r := range completed {
			s.onComplete(r)
		}
	}
	return published, errors.Join(errs...)
}

// Current returns the most recently published result. Before the first
// render completes it is a blank canvas with the initial parameters.
func (s *Supervisor) Current() Result {
	return s.current
}

func (s *Supervisor) State() State { return s.state }

// Pending reports the number of renders in flight.
func (s *Supervisor) Pending() int { return len(s.tasks) }

// Wait polls until no render is in flight or ctx is done. It is meant for
// foreground loops that have nothing else to do, such as headless runs.
func (s *Supervisor) Wait(ctx context.Context) error {
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	var errs []error
	for {
		if _, err := s.Poll(); err != nil {
			errs = append(errs, err)
		}
		if len(s.tasks) == 0 {
			return errors.Join(errs...)
		}
		select {
		case <-ctx.Done():
			return errors.Join(append(errs, context.Cause(ctx))...)
		case <-ticker.C:
		}
	}
}

// Close stops the private pool from accepting renders. Renders in flight
// still finish and can still be polled. A pool passed with WithPool is left
// to its owner.
func (s *Supervisor) Close() {
	if s.ownPool != nil {
		s.ownPool.Close()
	}
}

package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/neontetris/internal/model"
)

// PublishFunc receives the events an engine emitted while handling one
// request or timer. It runs on the runner goroutine and must not call back
// into the runner.
type PublishFunc func(events []model.Event)

// RunnerConfig holds settings for the session loop
type RunnerConfig struct {
	// AutoClearDelay signals the clear animation as done after this long.
	// Zero leaves it to the client.
	AutoClearDelay time.Duration
}

type request struct {
	fn    func(*Engine) error
	reply chan error
}

// alarm is a timer that can be disarmed; a disarmed alarm never fires
type alarm struct {
	timer *time.Timer
	armed bool
}

func (a *alarm) set(d time.Duration) {
	if a.timer == nil {
		a.timer = time.NewTimer(d)
	} else {
		a.timer.Reset(d)
	}
	a.armed = true
}

func (a *alarm) clear() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.armed = false
}

func (a *alarm) C() <-chan time.Time {
	if !a.armed {
		return nil
	}
	return a.timer.C
}

// Runner owns one engine and serialises every command, gravity tick, and
// fog change onto a single goroutine
type Runner struct {
	engine  *Engine
	cfg     RunnerConfig
	publish PublishFunc
	logger  *slog.Logger

	requests chan request
	done     chan struct{}
	stopped  chan struct{}

	gravity alarm
	clear   alarm
	fog     alarm
}

// NewRunner creates a Runner; call Start to begin the loop
func NewRunner(engine *Engine, cfg RunnerConfig, publish PublishFunc, logger *slog.Logger) *Runner {
	if publish == nil {
		publish = func([]model.Event) {}
	}
	return &Runner{
		engine:   engine,
		cfg:      cfg,
		publish:  publish,
		logger:   logger,
		requests: make(chan request),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the loop goroutine
func (r *Runner) Start() {
	go r.run()
}

// Stop ends the loop and waits for it to exit. Stopping twice is safe.
func (r *Runner) Stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	<-r.stopped
}

// Do runs fn against the engine on the loop goroutine
func (r *Runner) Do(ctx context.Context, fn func(*Engine) error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return model.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-r.stopped:
		return model.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the engine's observable state
func (r *Runner) Status(ctx context.Context) (model.Status, error) {
	var status model.Status
	err := r.Do(ctx, func(e *Engine) error {
		status = e.Status()
		return nil
	})
	return status, err
}

func (r *Runner) run() {
	defer close(r.stopped)
	defer func() {
		r.gravity.clear()
		r.clear.clear()
		r.fog.clear()
	}()

	r.settle()

	for {
		select {
		case req := <-r.requests:
			err := req.fn(r.engine)
			r.settle()
			req.reply <- err

		case <-r.gravity.C():
			r.gravity.armed = false
			r.engine.Tick()
			r.settle()

		case <-r.clear.C():
			r.clear.armed = false
			r.engine.SignalClearAnimationDone()
			r.settle()

		case <-r.fog.C():
			r.fog.armed = false
			r.engine.PublishFog()
			r.settle()

		case <-r.done:
			return
		}
	}
}

// settle publishes pending events and re-arms timers for the engine's phase
func (r *Runner) settle() {
	events := r.engine.DrainEvents()
	for _, ev := range events {
		switch ev.Type {
		case model.EventPieceSpawned, model.EventLevelUp, model.EventResumed, model.EventGameReset:
			// A fresh piece or interval gets a full gravity step
			r.gravity.clear()
		}
	}
	if len(events) > 0 {
		r.publish(events)
	}

	phase := r.engine.Phase()

	if phase == model.PhaseFalling {
		if !r.gravity.armed {
			r.gravity.set(r.engine.DropInterval())
		}
	} else {
		r.gravity.clear()
	}

	if phase == model.PhaseClearing && r.cfg.AutoClearDelay > 0 {
		if !r.clear.armed {
			r.clear.set(r.cfg.AutoClearDelay)
		}
	} else {
		r.clear.clear()
	}

	if next := r.engine.NextFogChange(); !next.IsZero() {
		r.fog.set(r.engine.clock.Until(next))
	} else {
		r.fog.clear()
	}
}

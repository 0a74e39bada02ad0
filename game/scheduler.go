package game

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Presenter flushes a rendered frame to its display after each tick.
type Presenter interface {
	Present()
}

// Scheduler drives a Simulation from a frame ticker and feeds it host events
// through the same select loop, so input never lands mid-tick.
type Scheduler struct {
	sim      *Simulation
	present  Presenter
	interval time.Duration
	events   chan Event

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewScheduler creates a scheduler ticking sim at fps frames per second.
// present may be nil.
func NewScheduler(sim *Simulation, fps int, present Presenter) *Scheduler {
	if fps < 1 {
		fps = 60
	}
	return &Scheduler{
		sim:      sim,
		present:  present,
		interval: time.Second / time.Duration(fps),
		events:   make(chan Event, 64),
	}
}

// Start launches the frame loop.
func (s *Scheduler) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.group, s.ctx = errgroup.WithContext(ctx)
	s.group.Go(s.run)
}

// Go runs fn alongside the frame loop. An error from fn stops the scheduler.
func (s *Scheduler) Go(fn func(ctx context.Context) error) {
	s.group.Go(func() error { return fn(s.ctx) })
}

// Send queues ev for the frame loop. It returns false once stopped.
func (s *Scheduler) Send(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Quit asks the scheduler to stop without waiting.
func (s *Scheduler) Quit() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until every goroutine has returned, then closes the simulation.
func (s *Scheduler) Wait() error {
	err := s.group.Wait()
	s.sim.Close()
	return err
}

// Stop cancels the loop and waits for it to finish.
func (s *Scheduler) Stop() error {
	s.Quit()
	return s.Wait()
}

func (s *Scheduler) run() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case ev := <-s.events:
			s.sim.Apply(ev)
		case <-ticker.C:
			s.sim.Tick()
			if s.present != nil {
				s.present.Present()
			}
			s.sim.RecordFrame()
		}
	}
}

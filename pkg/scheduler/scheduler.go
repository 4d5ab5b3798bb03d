package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Work is a unit of work run by the scheduler's workers.
type Work func(ctx context.Context) (any, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future resolves once with the result of a submitted work.
type Future struct {
	c      chan Result[any]
	cancel context.CancelFunc
}

func newFuture(cancel context.CancelFunc) *Future {
	return &Future{c: make(chan Result[any], 1), cancel: cancel}
}

// C delivers the result once the work is done.
func (f *Future) C() <-chan Result[any] {
	return f.c
}

// Stop cancels the work's context. Callers done with a future should stop it to
// release the context.
func (f *Future) Stop() {
	f.cancel()
}

func (f *Future) resolve(r Result[any]) {
	f.c <- r
}

type request struct {
	work   Work
	ctx    context.Context
	future *Future
}

// Scheduler runs work on a fixed pool of workers in submission order.
type Scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []request
	closed  bool
	workers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(nbWorkers int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{ctx: ctx, cancel: cancel}
	s.cond = sync.NewCond(&s.mu)

	for range max(nbWorkers, 1) {
		s.workers.Add(1)
		go s.run()
	}
	return s
}

// AddWork queues w. Work added after Close resolves with context.Canceled.
func (s *Scheduler) AddWork(w Work) *Future {
	ctx, cancel := context.WithCancel(s.ctx)
	f := newFuture(cancel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		cancel()
		f.resolve(Result[any]{Err: context.Canceled})
		return f
	}
	s.queue = append(s.queue, request{work: w, ctx: ctx, future: f})
	s.cond.Signal()
	return f
}

// Every submits w each interval until ctx is done, handing every result to onResult.
// A tick is skipped while the previous run is still in flight.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, w Work, onResult func(Result[any])) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f := s.AddWork(w)
			select {
			case r := <-f.C():
				f.Stop()
				if onResult != nil {
					onResult(r)
				}
			case <-ctx.Done():
				f.Stop()
				return
			}
		}
	}
}

// Close cancels running work, drops queued work and waits for the workers to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.queue
	s.queue = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	s.cancel()
	for _, r := range pending {
		r.future.resolve(Result[any]{Err: context.Canceled})
	}
	s.workers.Wait()
}

func (s *Scheduler) run() {
	defer s.workers.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		r := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		r.future.resolve(execute(r))
	}
}

func execute(r request) (result Result[any]) {
	defer func() {
		if p := recover(); p != nil {
			result = Result[any]{Err: fmt.Errorf("work panicked: %v", p)}
		}
	}()

	if err := r.ctx.Err(); err != nil {
		return Result[any]{Err: err}
	}
	v, err := r.work(r.ctx)
	return Result[any]{Data: v, Err: err}
}

package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/pkg/scheduler"
)

// IndexService keeps the full-text search index in step with the records. Rebuilds
// run on the scheduler's workers, on demand and every refresh interval.
type IndexService struct {
	scheduler *scheduler.Scheduler
	index     *store.SearchIndexStore
	interval  time.Duration
	logger    *zap.SugaredLogger

	state models.IndexStatus
	mu    sync.Mutex

	done   chan any
	cancel context.CancelFunc
}

func NewIndexService(s *scheduler.Scheduler, index *store.SearchIndexStore, interval time.Duration) *IndexService {
	srv := &IndexService{
		scheduler: s,
		index:     index,
		interval:  interval,
		logger:    zap.S().Named("index_service"),
		state:     models.IndexStatus{State: models.IndexStateReady},
	}
	if !index.Enabled() {
		srv.state.State = models.IndexStateDisabled
	}

	return srv
}

// GetStatus returns the refresher state.
func (s *IndexService) GetStatus() models.IndexStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Rebuild rebuilds the index and waits for the outcome.
func (s *IndexService) Rebuild(ctx context.Context) (int64, error) {
	if !s.index.Enabled() {
		return 0, nil
	}

	future := s.scheduler.AddWork(s.work)
	defer future.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case result := <-future.C():
		s.record(result)
		if result.Err != nil {
			return 0, result.Err
		}
		return result.Data.(int64), nil
	}
}

// Start rebuilds the index every refresh interval until Stop is called. A
// non-positive interval or a store without an index relation leaves it idle.
func (s *IndexService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil || s.interval <= 0 || !s.index.Enabled() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan any)

	go func(done chan any) {
		defer close(done)
		s.scheduler.Every(ctx, s.interval, s.work, s.record)
		s.logger.Debug("index refresher stopped")
	}(s.done)

	s.logger.Infow("index refresher started", "interval", s.interval)
}

func (s *IndexService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		<-done
	}
}

func (s *IndexService) work(ctx context.Context) (any, error) {
	s.setState(models.IndexStateRebuilding)
	return s.index.Rebuild(ctx)
}

func (s *IndexService) record(r scheduler.Result[any]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Err != nil {
		s.state.State = models.IndexStateError
		s.state.Error = r.Err
		s.logger.Errorw("failed to rebuild search index", "error", r.Err)
		return
	}

	now := time.Now()
	s.state = models.IndexStatus{
		State:       models.IndexStateReady,
		Rows:        r.Data.(int64),
		LastRebuild: &now,
	}
	s.logger.Debugw("search index rebuilt", "rows", s.state.Rows)
}

func (s *IndexService) setState(state models.IndexStateType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.State = state
}

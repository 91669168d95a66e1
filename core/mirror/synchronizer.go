package mirror

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Archiver stores a snapshot of the mirrored set. The synchronizer calls it
// after every successful pass when one is configured.
type Archiver interface {
	// Archive writes a snapshot and returns the name of the stored object.
	Archive(ctx context.Context) (string, error)
}

// Synchronizer runs reconciliation passes on a fixed interval. It owns its
// stop channel and is constructed with its dependencies injected; every
// trigger path shares one in-flight pass, so passes never overlap.
type Synchronizer struct {
	source   Source
	engine   *Engine
	archiver Archiver
	logger   *zap.Logger
	interval time.Duration

	group singleflight.Group

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSynchronizer creates a synchronizer over the given source and store.
// archiver may be nil to disable snapshot archiving.
func NewSynchronizer(source Source, store Store, archiver Archiver, logger *zap.Logger, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Synchronizer{
		source:   source,
		engine:   NewEngine(store, logger),
		archiver: archiver,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the periodic loop. Starting a running synchronizer is a
// no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop signals the loop to exit and waits for a pass in flight to return
// control. Stopping a stopped synchronizer is a no-op.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

func (s *Synchronizer) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Failures are logged inside SyncNow; the next tick retries
			// from scratch.
			_, _ = s.SyncNow(context.Background())
		}
	}
}

// SyncNow runs one reconciliation pass. Concurrent callers, including the
// scheduled tick, share a single in-flight pass and its result. The shared
// pass runs on a context detached from the trigger's, so a trigger that
// goes away cannot abort the pass for everyone else waiting on it.
func (s *Synchronizer) SyncNow(ctx context.Context) (*Stats, error) {
	passCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("pass", func() (interface{}, error) {
		return s.runPass(passCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Stats), nil
}

func (s *Synchronizer) runPass(ctx context.Context) (*Stats, error) {
	s.logger.Debug("Starting reconciliation pass")

	stats, err := s.engine.Run(ctx, s.source.Pages())
	if err != nil {
		s.logger.Error("Reconciliation pass failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Reconciliation pass completed",
		zap.Int("pages", stats.Pages),
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("deleted", stats.Deleted),
		zap.String("execution_time", stats.ExecutionTime),
	)

	if s.archiver != nil {
		if object, err := s.archiver.Archive(ctx); err != nil {
			// A failed snapshot never fails the pass.
			s.logger.Error("Snapshot archive failed", zap.Error(err))
		} else {
			s.logger.Info("Snapshot archived", zap.String("object", object))
		}
	}

	return stats, nil
}

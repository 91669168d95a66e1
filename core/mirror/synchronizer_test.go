package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeSource hands out a fresh page iterator per pass.
type fakeSource struct {
	mu     sync.Mutex
	opened int
	build  func() PageIter
}

func (s *fakeSource) Pages() PageIter {
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return s.build()
}

func (s *fakeSource) passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

type fakeArchiver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (a *fakeArchiver) Archive(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return fmt.Sprintf("snapshots/cases-%d.json", a.calls), nil
}

func (a *fakeArchiver) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func TestSynchronizerRunsPeriodically(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{build: func() PageIter {
		return newFakePages(Page{Records: []Record{rec(1, 1)}})
	}}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), 10*time.Millisecond)
	syncer.Start()
	defer syncer.Stop()

	assert.Eventually(t, func() bool { return source.passes() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestSynchronizerStopWaitsAndIsIdempotent(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{build: func() PageIter { return newFakePages(Page{}) }}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), 5*time.Millisecond)

	// Stop before Start is a no-op.
	syncer.Stop()

	syncer.Start()
	assert.Eventually(t, func() bool { return source.passes() >= 1 }, 2*time.Second, 5*time.Millisecond)

	syncer.Stop()
	settled := source.passes()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, source.passes(), "no pass may start after Stop returns")

	// Second Stop is a no-op.
	syncer.Stop()
}

func TestSynchronizerFailedPassEndsTickOnly(t *testing.T) {
	store := newFakeStore(rec(1, 1))
	source := &fakeSource{build: func() PageIter {
		p := newFakePages()
		p.failAt = 0
		p.err = errors.New("upstream unreachable")
		return p
	}}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), 5*time.Millisecond)
	syncer.Start()
	defer syncer.Stop()

	// The loop keeps ticking through failures and nothing is deleted.
	assert.Eventually(t, func() bool { return source.passes() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1}, sortedIDs(store.data))
}

func TestSyncNowReturnsStats(t *testing.T) {
	store := newFakeStore(rec(2, 1))
	source := &fakeSource{build: func() PageIter {
		return newFakePages(Page{Records: []Record{rec(1, 1)}})
	}}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), time.Hour)

	stats, err := syncer.SyncNow(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, []int64{1}, sortedIDs(store.data))
}

// blockingSource parks every iterator until release is closed, keeping a
// pass in flight for as long as the test needs.
type blockingSource struct {
	release chan struct{}
	mu      sync.Mutex
	opened  int
}

func (s *blockingSource) Pages() PageIter {
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &blockingIter{release: s.release}
}

type blockingIter struct {
	release <-chan struct{}
	served  bool
}

func (it *blockingIter) Next(ctx context.Context) (Page, bool, error) {
	if it.served {
		return Page{}, false, nil
	}
	<-it.release
	// Honor the pass context the way the real upstream fetch does.
	if err := ctx.Err(); err != nil {
		return Page{}, false, err
	}
	it.served = true
	return Page{Records: []Record{rec(1, 1)}}, true, nil
}

func TestSyncNowCoalescesConcurrentCallers(t *testing.T) {
	store := newFakeStore()
	source := &blockingSource{release: make(chan struct{})}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), time.Hour)

	const callers = 3
	var wg sync.WaitGroup
	results := make([]*Stats, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats, err := syncer.SyncNow(context.Background())
			assert.NoError(t, err)
			results[i] = stats
		}(i)
	}

	// Let all callers pile onto the in-flight pass, then let it finish.
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	source.mu.Lock()
	opened := source.opened
	source.mu.Unlock()
	assert.Equal(t, 1, opened, "concurrent callers must share one pass")
	for _, stats := range results {
		assert.Equal(t, results[0], stats)
	}
}

func TestSyncNowOutlivesCanceledTrigger(t *testing.T) {
	store := newFakeStore()
	source := &blockingSource{release: make(chan struct{})}

	syncer := NewSynchronizer(source, store, nil, zap.NewNop(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var stats *Stats
	var err error
	go func() {
		defer close(done)
		stats, err = syncer.SyncNow(ctx)
	}()

	// The trigger goes away while its pass is still in flight.
	cancel()
	close(source.release)
	<-done

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, []int64{1}, sortedIDs(store.data))
}

func TestSynchronizerArchivesAfterSuccess(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{build: func() PageIter {
		return newFakePages(Page{Records: []Record{rec(1, 1)}})
	}}
	archiver := &fakeArchiver{}

	syncer := NewSynchronizer(source, store, archiver, zap.NewNop(), time.Hour)

	_, err := syncer.SyncNow(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, archiver.count())
}

func TestSynchronizerSkipsArchiveOnFailure(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{build: func() PageIter {
		p := newFakePages()
		p.failAt = 0
		p.err = errors.New("upstream unreachable")
		return p
	}}
	archiver := &fakeArchiver{}

	syncer := NewSynchronizer(source, store, archiver, zap.NewNop(), time.Hour)

	_, err := syncer.SyncNow(context.Background())

	assert.Error(t, err)
	assert.Zero(t, archiver.count())
}

func TestSynchronizerArchiveFailureDoesNotFailPass(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{build: func() PageIter {
		return newFakePages(Page{Records: []Record{rec(1, 1)}})
	}}
	archiver := &fakeArchiver{err: errors.New("bucket gone")}

	syncer := NewSynchronizer(source, store, archiver, zap.NewNop(), time.Hour)

	stats, err := syncer.SyncNow(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, archiver.count())
}

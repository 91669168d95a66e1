package mirror

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Engine merges the upstream page stream into the local store.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine creates an engine writing to the given store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Run executes one full reconciliation pass over the given page stream.
// Pages committed before a failure stay committed; the page in flight when
// an error occurs is rolled back and the error returned.
func (e *Engine) Run(ctx context.Context, pages PageIter) (*Stats, error) {
	start := time.Now()

	p := &pass{engine: e, stats: &Stats{}}
	if err := p.run(ctx, pages); err != nil {
		if rbErr := e.store.Rollback(); rbErr != nil {
			e.logger.Error("Rollback of in-flight page failed", zap.Error(rbErr))
		}
		return nil, err
	}

	p.stats.ExecutionTime = time.Since(start).String()
	return p.stats, nil
}

// pass carries the local cursor state of a single run across page
// boundaries: a record pulled from the cursor but not yet matched survives
// into the next page's walk.
type pass struct {
	engine    *Engine
	cur       Cursor
	local     Record
	haveLocal bool
	watermark int64
	stats     *Stats
}

func (p *pass) run(ctx context.Context, pages PageIter) error {
	defer func() {
		if p.cur != nil {
			_ = p.cur.Close()
		}
	}()

	for {
		page, ok, err := pages.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		p.stats.Pages++

		if err := p.mergePage(ctx, page); err != nil {
			return err
		}
	}

	return p.deleteRemainder(ctx)
}

// mergePage walks one page against the local cursor and commits the
// resulting mutations. The transaction boundary is exactly one page.
func (p *pass) mergePage(ctx context.Context, page Page) error {
	store := p.engine.store

	// The cursor opens on the first page, starting at the watermark.
	if p.cur == nil {
		cur, err := store.ScanFrom(ctx, p.watermark)
		if err != nil {
			return err
		}
		p.cur = cur
		if err := p.advanceLocal(ctx); err != nil {
			return err
		}
	}

	remote := page.Records
walk:
	for len(remote) > 0 || p.haveLocal {
		switch {
		case len(remote) > 0 && p.haveLocal && remote[0].ID == p.local.ID:
			if err := p.updateIfNewer(ctx, remote[0]); err != nil {
				return err
			}
			remote = remote[1:]
			if err := p.advanceLocal(ctx); err != nil {
				return err
			}

		case len(remote) > 0 && p.haveLocal && remote[0].ID < p.local.ID:
			// New upstream record below the cursor position.
			if err := p.insert(ctx, remote[0]); err != nil {
				return err
			}
			remote = remote[1:]

		case len(remote) > 0 && p.haveLocal:
			// The local record has no counterpart in this page.
			if err := p.deleteLocal(ctx); err != nil {
				return err
			}

		case len(remote) > 0:
			// Local side exhausted, the rest of the page is new.
			if err := p.insert(ctx, remote[0]); err != nil {
				return err
			}
			remote = remote[1:]

		default:
			// Page exhausted with a local record still in hand. A later
			// page may match it: an offset boundary can split a contiguous
			// identifier run, so deletion would be premature.
			break walk
		}
	}

	// Once the stream signals completion, move the watermark past
	// everything this page resolved so a cursor opened later starts
	// beyond it.
	if !page.HasMore && len(page.Records) > 0 {
		if next := page.MaxID() + 1; next > p.watermark {
			p.watermark = next
		}
	}

	return store.Commit(ctx)
}

// deleteRemainder removes the record in hand and everything the cursor has
// not yet reached; the stream is exhausted, so none of them exist upstream.
func (p *pass) deleteRemainder(ctx context.Context) error {
	if !p.haveLocal {
		return nil
	}

	for p.haveLocal {
		if err := p.deleteLocal(ctx); err != nil {
			return err
		}
	}

	return p.engine.store.Commit(ctx)
}

func (p *pass) advanceLocal(ctx context.Context) error {
	rec, ok, err := p.cur.Next(ctx)
	if err != nil {
		return err
	}
	p.local, p.haveLocal = rec, ok
	return nil
}

func (p *pass) insert(ctx context.Context, rec Record) error {
	if err := p.engine.store.Insert(ctx, rec); err != nil {
		return err
	}
	p.stats.Inserted++
	p.engine.logger.Debug("Inserted case from upstream",
		zap.Int64("id", rec.ID),
		zap.Int64("version", rec.Version),
	)
	return nil
}

func (p *pass) deleteLocal(ctx context.Context) error {
	if _, err := p.engine.store.Delete(ctx, p.local.ID); err != nil {
		return err
	}
	p.stats.Deleted++
	p.engine.logger.Debug("Deleted case absent upstream", zap.Int64("id", p.local.ID))
	return p.advanceLocal(ctx)
}

// updateIfNewer resolves an identifier present on both sides. Only a
// strictly higher remote version writes; an equal version is a no-op and a
// lower one is kept local and flagged, since upstream versions are supposed
// to be monotonic.
func (p *pass) updateIfNewer(ctx context.Context, remote Record) error {
	log := p.engine.logger

	switch {
	case remote.Version > p.local.Version:
		if err := p.engine.store.UpdateVersionAndPayload(ctx, remote.ID, remote.Version, remote.Payload); err != nil {
			return err
		}
		p.stats.Updated++
		log.Debug("Updated case from upstream",
			zap.Int64("id", remote.ID),
			zap.Int64("from_version", p.local.Version),
			zap.Int64("to_version", remote.Version),
		)

	case remote.Version < p.local.Version:
		p.stats.Unchanged++
		log.Warn("Upstream version below mirrored version, keeping local record",
			zap.Int64("id", remote.ID),
			zap.Int64("local_version", p.local.Version),
			zap.Int64("remote_version", remote.Version),
		)

	default:
		p.stats.Unchanged++
	}

	return nil
}

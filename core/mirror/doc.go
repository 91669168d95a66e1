// Package mirror keeps a local copy of an upstream case registry in
// agreement with the registry itself.
//
// The registry exposes its records as an offset-paginated listing ordered by
// ascending identifier; the local store holds the mirrored records under the
// same identifiers. Reconciliation is a single forward merge of the two
// ordered sequences: every remote record is inserted, updated or confirmed,
// every local record the stream no longer covers is deleted, and memory
// stays bounded no matter how large either side grows.
//
// # Architecture
//
// The package consists of three main components:
//
//  1. Engine: the two-pointer merge. It consumes a PageIter of upstream
//     pages, walks an ordered Cursor over the local store in lock-step, and
//     applies one of {insert, update, no-op, delete} per record. Pending
//     writes are committed once per page, so a crash mid-pass loses at most
//     the in-flight page and the next pass reconverges.
//
//  2. Synchronizer: the periodic job wrapped around the engine. It owns its
//     stop channel, runs one pass per tick, and funnels every trigger path
//     (scheduled tick, manual SyncNow) through a singleflight group so a
//     pass never overlaps another. A pass, once started, runs to completion
//     detached from the context of whichever trigger started it.
//
//  3. Source/Store: the seams to the outside. Source opens fresh page
//     streams over the registry (core/upstream implements it); Store is the
//     transactional write side of the local mirror (feature/cases/store
//     implements it over GORM).
//
// # Merge rules
//
// For a remote record r and the local record l under the cursor:
//   - r.ID == l.ID: overwrite version and payload when r.Version is
//     strictly higher, otherwise leave the row untouched. A remote version
//     below the local one is logged as an anomaly and kept local.
//   - r.ID < l.ID: r is new upstream, insert it.
//   - r.ID > l.ID: l vanished upstream, delete it.
//   - page exhausted while l remains: hold l for the next page, since an
//     offset boundary can split a contiguous identifier run.
//   - stream exhausted while l remains: delete l and everything after it.
//
// # Usage
//
//	store := casestore.New(db)
//	sync := mirror.NewSynchronizer(client, store, nil, logg, 5*time.Second)
//	sync.Start()
//	defer sync.Stop()
//
//	// or one pass in the foreground:
//	stats, err := mirror.NewEngine(store, logg).Run(ctx, client.Pages())
package mirror

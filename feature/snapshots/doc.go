// Package snapshots archives the case mirror to object storage.
//
// A snapshot is one JSON document holding every committed mirrored case in
// id order, written to the configured bucket under snapshots/. A
// reconciliation page still in flight never appears in a snapshot. The
// synchronizer takes one after each successful reconciliation pass, and the
// REST surface can take, list, download and delete them on demand. Old
// snapshots are pruned down to the configured retention count after every
// archive.
//
// The feature loads only when object storage is configured; without a
// storage endpoint the routes do not exist.
//
// # HTTP Endpoints
//
//   - GET    /snapshots       : List stored snapshots, newest first.
//   - POST   /snapshots       : Archive a snapshot now.
//   - GET    /snapshots/:name : Download one snapshot document.
//   - DELETE /snapshots/:name : Remove one snapshot.
package snapshots

package mirror

import (
	"context"
	"encoding/json"
)

// Record is one case in merge form: the identifier and version the engine
// compares on, plus the serialized payload it stores verbatim.
type Record struct {
	ID      int64
	Version int64
	Payload json.RawMessage
}

// Page is one batch of the upstream listing, ordered by ascending
// identifier, with a continuation signal.
type Page struct {
	Records []Record
	HasMore bool
}

// MaxID returns the highest identifier observed on the page, 0 when empty.
func (p Page) MaxID() int64 {
	var max int64
	for _, r := range p.Records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

// PageIter walks an upstream listing one page at a time.
type PageIter interface {
	// Next fetches the next page. ok is false once the listing is
	// exhausted; err aborts the current pass.
	Next(ctx context.Context) (page Page, ok bool, err error)
}

// Source opens fresh page streams over the upstream record set. Each call
// to Pages returns an iterator positioned at offset zero.
type Source interface {
	Pages() PageIter
}

// Cursor is an ascending identifier scan over the local mirror. A cursor
// reflects the record set as of the positions it has visited: once
// exhausted it stays exhausted, and rows written behind its position are
// never revisited.
type Cursor interface {
	Next(ctx context.Context) (rec Record, ok bool, err error)
	Close() error
}

// Store is the write side of the local mirror. Mutations accumulate in a
// pending transaction that Commit finishes and Rollback discards; the
// engine commits once per upstream page.
type Store interface {
	// ScanFrom opens a cursor over records with identifier >= id.
	ScanFrom(ctx context.Context, id int64) (Cursor, error)
	// Insert adds a new record.
	Insert(ctx context.Context, rec Record) error
	// UpdateVersionAndPayload overwrites the version and payload of an
	// existing record.
	UpdateVersionAndPayload(ctx context.Context, id, version int64, payload []byte) error
	// Delete removes a record, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Commit finishes the pending transaction. A commit with nothing
	// pending is a no-op.
	Commit(ctx context.Context) error
	// Rollback discards the pending transaction, if any.
	Rollback() error
}

// Stats summarizes one reconciliation pass.
type Stats struct {
	// Pages is the number of upstream pages consumed.
	Pages int `json:"pages"`

	// Inserted counts records created locally.
	Inserted int `json:"inserted"`

	// Updated counts records whose version and payload were overwritten.
	Updated int `json:"updated"`

	// Unchanged counts records confirmed at their current version.
	Unchanged int `json:"unchanged"`

	// Deleted counts records removed because upstream no longer has them.
	Deleted int `json:"deleted"`

	// ExecutionTime is the wall-clock duration of the pass.
	ExecutionTime string `json:"execution_time"`
}

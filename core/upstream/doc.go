// Package upstream is the client for the upstream case registry.
//
// The registry is the source of truth for all cases. It exposes an
// offset-paginated listing ordered by ascending id plus single-record
// create, update, delete and get operations, all authenticated with an
// api key header.
//
// # Client Interface
//
// The Client interface abstracts the HTTP transport, making it easy to mock
// registry interactions in tests (see core/upstream/mocks). The concrete
// client normalizes every failure into *Error: upstream rejections keep
// their status code and any attached messages, transport failures become
// status 503 with title "Network Error".
//
// # Paging
//
// Pages opens an iterator that advances the listing offset by the page
// limit until a page reports no continuation, which makes Client a
// mirror.Source. Each listing object travels on as raw JSON: only id and
// logical_timestamp are peeked for the merge, everything else is stored
// verbatim.
//
// # Usage
//
//	client, err := upstream.NewClient(cfg)
//	page, err := client.FetchPage(ctx, 1000, 0)
//	created, err := client.Create(ctx, upstream.CaseCreate{...})
package upstream

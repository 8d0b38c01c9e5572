package archive

import "context"

// Store loads and persists the archive state as a whole.
//
// Load returns an empty state when nothing has been persisted yet (first-run
// bootstrap) and must reflect all history in one read; there is no partial
// or streamed loading. Save must be all-or-nothing with respect to a single
// run: readers never observe one structure updated and the other stale.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
}

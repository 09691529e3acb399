// Package source abstracts over the two ways of retrieving a snapshot of
// current listings from the classifieds site: scraping the results page
// markup, or reading the results RSS feed. The watcher depends only on the
// Source capability, never on a concrete adapter.
package source

import (
	"context"

	"avtowatch/listing"
)

// Source retrieves one snapshot of currently-visible listings. A single Fetch
// covers at most one page/feed response; there is no pagination traversal.
// Transport and parse failures are returned as errors — the caller decides
// whether they are fatal (the watcher absorbs them).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]listing.Listing, error)
}

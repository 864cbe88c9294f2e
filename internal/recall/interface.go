package recall

import "github.com/cumulus13/gsearch/internal/google"

// Finder is the minimal history search API the CLI needs.
type Finder interface {
	Find(query string, limit int) ([]*Hit, error)
}

// UpdateListener is implemented by engines that maintain an external
// index and want to hear about freshly recorded pages.
type UpdateListener interface {
	OnPageRecorded(query string, page int, items []google.Result)
}

// ClearListener is implemented by engines that hold derived state and
// must drop it when the history store is wiped.
type ClearListener interface {
	OnHistoryCleared()
}

// DebugStatser reports index size for diagnostics.
type DebugStatser interface {
	DocCount() (uint64, error)
}

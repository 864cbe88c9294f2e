package session

import (
	"context"
	"fmt"

	"github.com/cumulus13/gsearch/internal/debuglog"
	"github.com/cumulus13/gsearch/internal/google"
)

// MaxPages is the deepest page the API serves for any query, regardless of
// how many results it claims to have.
const MaxPages = 10

// Fetcher retrieves one page of raw results. *google.Client satisfies it.
type Fetcher interface {
	FetchPage(ctx context.Context, query string, start, num int) (*google.Page, error)
}

// Saver persists a fetched page to disk. *sink.Sink satisfies it.
type Saver interface {
	Write(query string, page int, items []google.Result) (string, error)
}

// Recorder appends a fetched page to the search history. *storage.Store
// satisfies it.
type Recorder interface {
	RecordPage(query string, page, totalResults int, items []google.Result) error
}

// Session drives one query: it owns the page cache, the result totals and
// the fallback payload. A new query always means a new Session; nothing in
// here is ever reused across queries.
type Session struct {
	Query string

	perPage  int
	fetcher  Fetcher
	saver    Saver
	recorder Recorder

	pages        *pageCache
	totalResults int
	totalPages   int
	totalsKnown  bool
	lastGood     []google.Result
}

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithPerPage sets the page size. Values are clamped to [1, 10].
func WithPerPage(n int) Option {
	return func(s *Session) {
		s.perPage = n
	}
}

// WithSaver enables writing fetched pages to disk.
func WithSaver(sv Saver) Option {
	return func(s *Session) {
		s.saver = sv
	}
}

// WithRecorder enables appending fetched pages to the search history.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// New creates a session for one query. Totals stay at their defaults until
// the first genuine fetch of page 1 comes back.
func New(query string, fetcher Fetcher, opts ...Option) *Session {
	s := &Session{
		Query:      query,
		perPage:    google.MaxPerPage,
		fetcher:    fetcher,
		pages:      newPageCache(),
		totalPages: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.perPage > google.MaxPerPage {
		s.perPage = google.MaxPerPage
	}
	if s.perPage < 1 {
		s.perPage = 1
	}
	return s
}

// PageView is what one GetPage call hands the UI: the items plus everything
// needed to describe how they were obtained.
type PageView struct {
	Page   int
	Items  []google.Result
	Cached bool // served from the session cache, no request made
	Stale  bool // fallback payload shown because the fetch failed
	Empty  bool // genuine response that carried no items

	FetchErr error  // the failure behind a stale view
	SavedTo  string // artifact path when persistence is on
	SaveErr  error  // non-fatal persistence failure
}

// GetPage returns the requested page, fetching it only if this session has
// never seen it. A failed fetch falls back to the last good payload when one
// exists; an empty payload is reported as such, never as an error.
func (s *Session) GetPage(ctx context.Context, page int) (*PageView, error) {
	if page < 1 {
		return nil, fmt.Errorf("page %d out of range", page)
	}

	if items, ok := s.pages.Get(page); ok {
		debuglog.Debugf("session %q: page %d served from cache", s.Query, page)
		return &PageView{Page: page, Items: items, Cached: true}, nil
	}

	start := (page-1)*s.perPage + 1
	res, err := s.fetcher.FetchPage(ctx, s.Query, start, s.perPage)
	if err != nil {
		debuglog.Warnf("session %q: page %d fetch failed: %v", s.Query, page, err)
		if s.lastGood != nil {
			return &PageView{Page: page, Items: s.lastGood, Stale: true, FetchErr: err}, nil
		}
		return nil, err
	}

	if page == 1 && !s.totalsKnown {
		s.deriveTotals(res.TotalResults)
	}

	if len(res.Items) == 0 {
		debuglog.Infof("session %q: page %d came back empty", s.Query, page)
		return &PageView{Page: page, Empty: true}, nil
	}

	s.pages.Put(page, res.Items)
	s.lastGood = res.Items

	view := &PageView{Page: page, Items: res.Items}

	if s.saver != nil {
		path, err := s.saver.Write(s.Query, page, res.Items)
		if err != nil {
			debuglog.Warnf("session %q: saving page %d failed: %v", s.Query, page, err)
			view.SaveErr = err
		} else {
			view.SavedTo = path
		}
	}
	if s.recorder != nil {
		if err := s.recorder.RecordPage(s.Query, page, s.totalResults, res.Items); err != nil {
			debuglog.Warnf("session %q: recording page %d failed: %v", s.Query, page, err)
		}
	}

	return view, nil
}

// deriveTotals fixes the session's result counts from the first genuine
// page 1 payload. Later fetches never touch them again, even if the API's
// estimate drifts between pages.
func (s *Session) deriveTotals(total int) {
	s.totalResults = total
	pages := (total + s.perPage - 1) / s.perPage
	if pages > MaxPages {
		pages = MaxPages
	}
	s.totalPages = pages
	s.totalsKnown = true
	debuglog.Debugf("session %q: %d results across %d pages", s.Query, total, pages)
}

// TotalResults is the API's estimate for the whole query.
func (s *Session) TotalResults() int {
	return s.totalResults
}

// TotalPages is the navigable page count, capped at MaxPages.
func (s *Session) TotalPages() int {
	return s.totalPages
}

// PerPage is the page size this session requests.
func (s *Session) PerPage() int {
	return s.perPage
}

// CachedPages reports how many pages the session has fetched so far.
func (s *Session) CachedPages() int {
	return s.pages.Len()
}

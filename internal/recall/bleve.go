package recall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/cumulus13/gsearch/internal/google"
	"github.com/cumulus13/gsearch/internal/storage"
)

// Index is a Bleve-backed history finder. It wraps the store so that
// recording a page both persists it and folds it into the index.
type Index struct {
	store *storage.Store
	idx   bleve.Index
}

// Per-field boosts applied to both the analyzed match and the raw
// prefix variant of each query token.
var fieldBoosts = []struct {
	field  string
	match  float64
	prefix float64
}{
	{"title", 4.0, 3.5},
	{"query", 2.5, 2.2},
	{"snippet", 2.0, 1.8},
	{"display_link", 1.0, 0.8},
	{"link", 0.5, 0.3},
}

// OpenIndex opens or creates a Bleve index at indexPath and loads the
// current history into it.
func OpenIndex(store *storage.Store, indexPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}

	ix := &Index{store: store, idx: idx}
	if err := ix.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("indexing history: %w", err)
	}
	return ix, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	queryField := bleve.NewTextFieldMapping()
	queryField.Analyzer = standard.Name
	queryField.Store = true
	queryField.IncludeTermVectors = true

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	snippet := bleve.NewTextFieldMapping()
	snippet.Analyzer = standard.Name
	snippet.Store = true

	link := bleve.NewTextFieldMapping()
	link.Analyzer = standard.Name
	link.Store = true

	displayLink := bleve.NewTextFieldMapping()
	displayLink.Analyzer = standard.Name
	displayLink.Store = true

	searchID := bleve.NewTextFieldMapping()
	searchID.Analyzer = standard.Name
	searchID.Store = true

	page := bleve.NewNumericFieldMapping()
	page.Store = true

	dm.AddFieldMappingsAt("query", queryField)
	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("snippet", snippet)
	dm.AddFieldMappingsAt("link", link)
	dm.AddFieldMappingsAt("display_link", displayLink)
	dm.AddFieldMappingsAt("search_id", searchID)
	dm.AddFieldMappingsAt("page", page)

	im.DefaultMapping = dm
	return im
}

// reindexAll rebuilds the index from every record currently in the
// store. Doc IDs are stable, so stale entries are simply overwritten.
func (ix *Index) reindexAll() error {
	searches, err := ix.store.GetAllSearches()
	if err != nil {
		return err
	}

	batch := ix.idx.NewBatch()
	for _, s := range searches {
		_ = batch.Index(docIDForSearch(s.ID), searchDoc(s.ID, s.Query))

		results, err := ix.store.GetResults(s.ID, 0)
		if err != nil {
			continue
		}
		for _, r := range results {
			_ = batch.Index(docIDForResult(r.ID), map[string]any{
				"type":         "result",
				"search_id":    r.SearchID,
				"query":        r.Query,
				"title":        r.Title,
				"snippet":      r.Snippet,
				"link":         r.Link,
				"display_link": r.DisplayLink,
				"page":         r.Page,
				"rank":         r.Rank,
			})
		}
	}
	return ix.idx.Batch(batch)
}

// Find queries the index with per-term match and prefix clauses across
// the boosted fields and reconstructs hits from stored fields.
func (ix *Index) Find(query string, limit int) ([]*Hit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Hit{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, b := range fieldBoosts {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(b.field)
			mq.SetBoost(b.match)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(b.field)
			pq.SetBoost(b.prefix)
			qs = append(qs, pq)
		}
	}
	if len(qs) == 0 {
		return []*Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"query", "title", "snippet", "link", "display_link", "search_id", "page"}
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, err
	}

	hits := make([]*Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := &Hit{Score: h.Score}
		switch {
		case strings.HasPrefix(h.ID, "search:"):
			id := strings.TrimPrefix(h.ID, "search:")
			s := &storage.Search{ID: id}
			if q, ok := h.Fields["query"].(string); ok {
				s.Query = q
			}
			if full, err := ix.store.GetSearch(id); err == nil {
				s = full
			}
			hit.Search = s
		case strings.HasPrefix(h.ID, "result:"):
			id := strings.TrimPrefix(h.ID, "result:")
			r := &storage.SavedResult{ID: id}
			if v, ok := h.Fields["title"].(string); ok {
				r.Title = v
			}
			if v, ok := h.Fields["snippet"].(string); ok {
				r.Snippet = v
			}
			if v, ok := h.Fields["link"].(string); ok {
				r.Link = v
			}
			if v, ok := h.Fields["display_link"].(string); ok {
				r.DisplayLink = v
			}
			if v, ok := h.Fields["query"].(string); ok {
				r.Query = v
			}
			if v, ok := h.Fields["page"].(float64); ok {
				r.Page = int(v)
			}
			if sid, ok := h.Fields["search_id"].(string); ok {
				r.SearchID = sid
				if s, err := ix.store.GetSearch(sid); err == nil {
					hit.Search = s
				}
			}
			hit.Result = r
			hit.IsResult = true
		default:
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// RecordPage persists the page through the wrapped store and folds the
// fresh results into the index. Satisfies session.Recorder.
func (ix *Index) RecordPage(query string, page, totalResults int, items []google.Result) error {
	if err := ix.store.RecordPage(query, page, totalResults, items); err != nil {
		return err
	}
	ix.OnPageRecorded(query, page, items)
	return nil
}

// OnPageRecorded indexes one fetched page of results.
func (ix *Index) OnPageRecorded(query string, page int, items []google.Result) {
	searchID := storage.GenerateSearchID(query)

	batch := ix.idx.NewBatch()
	_ = batch.Index(docIDForSearch(searchID), searchDoc(searchID, query))
	for i, item := range items {
		_ = batch.Index(docIDForResult(storage.GenerateResultID(query, item.Link)), map[string]any{
			"type":         "result",
			"search_id":    searchID,
			"query":        query,
			"title":        item.Title,
			"snippet":      item.Snippet,
			"link":         item.Link,
			"display_link": item.DisplayLink,
			"page":         page,
			"rank":         i + 1,
		})
	}
	_ = ix.idx.Batch(batch)
}

// OnHistoryCleared drops every document so the index matches the wiped
// store.
func (ix *Index) OnHistoryCleared() {
	q := bleve.NewMatchAllQuery()
	for {
		// From stays at zero because each round deletes what it matched.
		req := bleve.NewSearchRequestOptions(q, 1000, 0, false)
		res, err := ix.idx.Search(req)
		if err != nil || res == nil || len(res.Hits) == 0 {
			return
		}
		batch := ix.idx.NewBatch()
		for _, h := range res.Hits {
			batch.Delete(h.ID)
		}
		if err := ix.idx.Batch(batch); err != nil {
			return
		}
		if len(res.Hits) < 1000 {
			return
		}
	}
}

// DocCount reports total documents in the index.
func (ix *Index) DocCount() (uint64, error) {
	return ix.idx.DocCount()
}

// Close releases the underlying index. The wrapped store is owned by
// the caller and stays open.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

func searchDoc(searchID, query string) map[string]any {
	return map[string]any{
		"type":      "search",
		"search_id": searchID,
		"query":     query,
	}
}

func docIDForSearch(searchID string) string { return "search:" + searchID }
func docIDForResult(resultID string) string { return "result:" + resultID }

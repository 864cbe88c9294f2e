package storage

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cumulus13/gsearch/internal/google"
)

var (
	searchesBucket = []byte("searches")
	resultsBucket  = []byte("results")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{searchesBucket, resultsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordPage appends one fetched page to the history. The search record is
// keyed by the exact query text, so repeated runs update totals and
// timestamps instead of multiplying entries. Satisfies session.Recorder.
func (s *Store) RecordPage(query string, page, totalResults int, items []google.Result) error {
	now := time.Now()
	searchID := GenerateSearchID(query)

	return s.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket(searchesBucket)

		var search Search
		if data := sb.Get([]byte(searchID)); data != nil {
			if err := json.Unmarshal(data, &search); err != nil {
				search = Search{}
			}
		}
		if search.ID == "" {
			search = Search{ID: searchID, Query: query, RanAt: now}
		}
		search.TotalResults = totalResults
		search.UpdatedAt = now
		if !containsPage(search.PagesFetched, page) {
			search.PagesFetched = append(search.PagesFetched, page)
			sort.Ints(search.PagesFetched)
		}

		data, err := json.Marshal(&search)
		if err != nil {
			return err
		}
		if err := sb.Put([]byte(searchID), data); err != nil {
			return err
		}

		rb := tx.Bucket(resultsBucket)
		for i, item := range items {
			result := SavedResult{
				ID:          GenerateResultID(query, item.Link),
				SearchID:    searchID,
				Query:       query,
				Page:        page,
				Rank:        i + 1,
				Title:       item.Title,
				Link:        item.Link,
				Snippet:     item.Snippet,
				DisplayLink: item.DisplayLink,
				SavedAt:     now,
			}
			data, err := json.Marshal(&result)
			if err != nil {
				return err
			}
			if err := rb.Put([]byte(result.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetSearch(id string) (*Search, error) {
	var search Search
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("search not found")
		}
		return json.Unmarshal(data, &search)
	})
	return &search, err
}

// GetAllSearches returns recorded searches, most recently touched first.
func (s *Store) GetAllSearches() ([]*Search, error) {
	var searches []*Search
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var search Search
			if err := json.Unmarshal(v, &search); err != nil {
				return err
			}
			searches = append(searches, &search)
			return nil
		})
	})
	sort.Slice(searches, func(i, j int) bool {
		return searches[i].UpdatedAt.After(searches[j].UpdatedAt)
	})
	return searches, err
}

// GetResults returns saved items, optionally scoped to one search, ordered
// by page then rank.
func (s *Store) GetResults(searchID string, limit int) ([]*SavedResult, error) {
	var results []*SavedResult
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var result SavedResult
			if err := json.Unmarshal(v, &result); err != nil {
				return nil
			}
			if searchID == "" || result.SearchID == searchID {
				results = append(results, &result)
			}
			return nil
		})
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].Page != results[j].Page {
			return results[i].Page < results[j].Page
		}
		return results[i].Rank < results[j].Rank
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, err
}

// DeleteSearch removes a search record and every result saved under it.
func (s *Store) DeleteSearch(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket(searchesBucket)
		if err := sb.Delete([]byte(id)); err != nil {
			return err
		}

		rb := tx.Bucket(resultsBucket)
		c := rb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var result SavedResult
			if err := json.Unmarshal(v, &result); err != nil {
				continue
			}
			if result.SearchID == id {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Clear drops the whole history.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{searchesBucket, resultsBucket} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateSearchID derives the stable record key for a query.
func GenerateSearchID(query string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(query)))
}

// GenerateResultID derives the stable record key for a link saved under a
// query. Refetching the same page overwrites rather than duplicates.
func GenerateResultID(query, link string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(query+"\x00"+link)))
}

func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}

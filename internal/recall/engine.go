package recall

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cumulus13/gsearch/internal/storage"
)

// Hit is one history match, either a past search or a saved result.
type Hit struct {
	Search   *storage.Search
	Result   *storage.SavedResult
	IsResult bool
	Score    float64
	Matches  []Match
}

// Match records where the text was found.
type Match struct {
	Field  string // "query", "title", "snippet", "link"
	Text   string
	Weight float64
}

// Engine scans the history store directly. It needs nothing on disk
// beyond the store itself and is the fallback when indexing is off.
type Engine struct {
	store *storage.Store
}

// NewEngine creates a store-scan engine over the given history store.
func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Find scores every recorded search and saved result against the query
// and returns the best matches, highest score first.
func (e *Engine) Find(query string, limit int) ([]*Hit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Hit{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Hit{}, nil
	}

	searches, err := e.store.GetAllSearches()
	if err != nil {
		return nil, err
	}

	var hits []*Hit
	for _, s := range searches {
		if hit := e.matchSearch(s, terms); hit != nil {
			hits = append(hits, hit)
		}

		results, err := e.store.GetResults(s.ID, 0)
		if err != nil {
			continue
		}
		for _, r := range results {
			if hit := e.matchResult(s, r, terms); hit != nil {
				hits = append(hits, hit)
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// matchSearch scores a past search by its query text.
func (e *Engine) matchSearch(s *storage.Search, terms []string) *Hit {
	score := scoreField(s.Query, terms, 3.0)
	if score == 0 {
		return nil
	}
	return &Hit{
		Search: s,
		Score:  score,
		Matches: []Match{
			{Field: "query", Text: s.Query, Weight: score},
		},
	}
}

// matchResult scores a saved result across its fields.
func (e *Engine) matchResult(s *storage.Search, r *storage.SavedResult, terms []string) *Hit {
	var matches []Match
	var total float64

	if sc := scoreField(r.Title, terms, 4.0); sc > 0 {
		matches = append(matches, Match{Field: "title", Text: r.Title, Weight: sc})
		total += sc
	}
	if sc := scoreField(r.Snippet, terms, 2.0); sc > 0 {
		matches = append(matches, Match{Field: "snippet", Text: truncate(r.Snippet, 160), Weight: sc})
		total += sc
	}
	if sc := scoreField(r.Link, terms, 0.5); sc > 0 {
		matches = append(matches, Match{Field: "link", Text: r.Link, Weight: sc})
		total += sc
	}

	if total == 0 {
		return nil
	}

	total *= 1.0 + recencyBoost(r.SavedAt)

	return &Hit{
		Search:   s,
		Result:   r,
		IsResult: true,
		Score:    total,
		Matches:  matches,
	}
}

// scoreField rates how well a field matches the terms. Terms must come
// from tokenize so they are lowercase already.
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)

	var score float64
	matched := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}
	if len(words) > 0 {
		tf := float64(matched) / float64(len(words))
		score *= 1.0 + math.Log(1.0+tf)
	}

	return score * weight
}

// recencyBoost nudges recently saved results above stale snapshots of
// the same query. Results older than a week get no boost.
func recencyBoost(savedAt time.Time) float64 {
	if savedAt.IsZero() {
		return 0
	}
	age := time.Since(savedAt)
	if age < 0 {
		age = 0
	}
	const window = 7 * 24 * time.Hour
	if age >= window {
		return 0
	}
	return 0.1 * (1 - float64(age)/float64(window))
}

// tokenize lowercases text and splits it into alphanumeric terms,
// dropping single characters.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}

// truncate limits text length with an ellipsis.
func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-1] + "…"
}

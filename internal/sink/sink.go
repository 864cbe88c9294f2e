// Package sink writes fetched result pages to per-query text files.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cumulus13/gsearch/internal/google"
)

type Sink struct {
	dir string
}

// New creates a sink rooted at dir, creating the directory if needed.
func New(dir string) (*Sink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the directory artifacts are written to.
func (s *Sink) Dir() string {
	return s.dir
}

// Filename is the artifact name for a query and page pair: spaces in the
// query become underscores, the page number is appended verbatim.
func Filename(query string, page int) string {
	return fmt.Sprintf("%s_page%d.txt", strings.ReplaceAll(query, " ", "_"), page)
}

// Write persists one page, two lines per item (title, link) separated by a
// blank line. The same query and page always map to the same file, which is
// silently overwritten.
func (s *Sink) Write(query string, page int, items []google.Result) (string, error) {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Title)
		b.WriteByte('\n')
		b.WriteString(item.Link)
		b.WriteString("\n\n")
	}

	path := filepath.Join(s.dir, Filename(query, page))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("saving results: %w", err)
	}
	return path, nil
}

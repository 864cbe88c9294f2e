package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cumulus13/gsearch/internal/google"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		query string
		page  int
		want  string
	}{
		{"golang", 1, "golang_page1.txt"},
		{"hello world", 3, "hello_world_page3.txt"},
		{"a b c", 10, "a_b_c_page10.txt"},
		{"already_underscored", 2, "already_underscored_page2.txt"},
	}
	for _, tt := range tests {
		if got := Filename(tt.query, tt.page); got != tt.want {
			t.Errorf("Filename(%q, %d) = %q, want %q", tt.query, tt.page, got, tt.want)
		}
	}
}

func TestSink_Write(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	items := []google.Result{
		{Title: "Go", Link: "https://go.dev"},
		{Title: "Go docs", Link: "https://go.dev/doc"},
	}

	path, err := s.Write("hello world", 2, items)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(dir, "hello_world_page2.txt") {
		t.Errorf("unexpected path %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Go\nhttps://go.dev\n\nGo docs\nhttps://go.dev/doc\n\n"
	if string(content) != want {
		t.Errorf("file content = %q, want %q", string(content), want)
	}
}

func TestSink_WriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.Write("q", 1, []google.Result{{Title: "old", Link: "https://old.example"}}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	path, err := s.Write("q", 1, []google.Result{{Title: "new", Link: "https://new.example"}})
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "new\nhttps://new.example\n\n" {
		t.Errorf("second write did not replace the file, got %q", string(content))
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "nested")
	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestNew_RejectsUnwritableRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are moot")
	}
	parent := t.TempDir()
	if err := os.Chmod(parent, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(parent, 0o755)

	if _, err := New(filepath.Join(parent, "blocked")); err == nil {
		t.Error("expected error creating directory under read-only parent")
	}
}

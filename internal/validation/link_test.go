package validation

import (
	"strings"
	"testing"
)

func TestLinkValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		wantErr bool
	}{
		{name: "plain https", link: "https://go.dev", wantErr: false},
		{name: "plain http", link: "http://example.org/page", wantErr: false},
		{name: "with query and fragment", link: "https://go.dev/doc?m=old#top", wantErr: false},
		{name: "with port", link: "https://go.dev:8443/path", wantErr: false},
		{name: "surrounding whitespace is trimmed", link: "  https://go.dev  ", wantErr: false},
		{name: "empty", link: "", wantErr: true},
		{name: "whitespace only", link: "   ", wantErr: true},
		{name: "ftp scheme", link: "ftp://files.example.org/a.txt", wantErr: true},
		{name: "file scheme", link: "file:///etc/passwd", wantErr: true},
		{name: "javascript scheme", link: "javascript:alert(1)", wantErr: true},
		{name: "scheme only", link: "https://", wantErr: true},
		{name: "no scheme", link: "go.dev/doc", wantErr: true},
		{name: "embedded space", link: "https://go.dev/a b", wantErr: true},
		{name: "embedded newline", link: "https://go.dev/a\nb", wantErr: true},
		{name: "too long", link: "https://go.dev/" + strings.Repeat("a", 3000), wantErr: true},
	}

	v := NewLinkValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.link)
			if tt.wantErr && err == nil {
				t.Errorf("Validate(%q) expected error, got nil", tt.link)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) unexpected error: %v", tt.link, err)
			}
		})
	}
}

func TestValidateLink(t *testing.T) {
	if err := ValidateLink("https://go.dev"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLink("not a link"); err == nil {
		t.Error("expected error for invalid link")
	}
}

package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkValidator checks result links before they are handed to a browser.
// The API is the source of these strings, but a malformed or non-web link
// should never reach a subprocess invocation.
type LinkValidator struct {
	// MaxLength is the maximum allowed link length
	MaxLength int
}

// NewLinkValidator creates a validator with default limits
func NewLinkValidator() *LinkValidator {
	return &LinkValidator{
		MaxLength: 2048,
	}
}

// Validate rejects links that are empty, oversized, non-http(s) or hostless
func (v *LinkValidator) Validate(link string) error {
	link = strings.TrimSpace(link)

	if link == "" {
		return fmt.Errorf("link cannot be empty")
	}
	if len(link) > v.MaxLength {
		return fmt.Errorf("link too long (max %d characters)", v.MaxLength)
	}

	for _, char := range link {
		if char < 32 || char == ' ' {
			return fmt.Errorf("link contains invalid characters")
		}
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("link must use http or https protocol")
	}
	if parsed.Host == "" {
		return fmt.Errorf("link must have a valid hostname")
	}

	return nil
}

// ValidateLink checks a link with default limits
func ValidateLink(link string) error {
	return NewLinkValidator().Validate(link)
}

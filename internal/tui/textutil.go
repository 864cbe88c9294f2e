package tui

import "strings"

// truncateEnd shortens s to at most limit characters, appending an ellipsis
// when something was cut. Counts runes, not bytes.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle shortens s to at most limit characters, keeping both ends
// around a single ellipsis. URLs and file paths carry meaning on both sides,
// so this reads better for them than cutting the tail.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	left := (limit - 1) / 2
	right := limit - 1 - left
	if left == 0 {
		return "…" + string(r[len(r)-right:])
	}
	return string(r[:left]) + "…" + string(r[len(r)-right:])
}

// flattenSpace collapses all whitespace runs, including newlines the API
// leaves inside snippets, into single spaces.
func flattenSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

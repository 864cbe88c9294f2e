package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgNoResults      = "No results"
	MsgEndOfResults   = "End of results"
	MsgUnknownCommand = "Unknown command"
	MsgFirstPage      = "Already on the first page"
	MsgLastPage       = "Already on the last page"
	MsgGotoHint       = "page number"
)

func MsgFetching(page int) string {
	return fmt.Sprintf("Fetching page %d…", page)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgResultsSummary(total, pages int) string {
	pageWord := "pages"
	if pages == 1 {
		pageWord = "page"
	}
	return fmt.Sprintf("About %s • %d %s", MsgResultsCount(total), pages, pageWord)
}

func MsgCachedPage(page int) string {
	return fmt.Sprintf("Page %d, served from cache", page)
}

func MsgPageOutOfRange(total int) string {
	return fmt.Sprintf("Page must be between 1 and %d", total)
}

func MsgSelectionOutOfRange(count int) string {
	if count == 0 {
		return "Nothing to open yet"
	}
	return fmt.Sprintf("Pick a result between 1 and %d", count)
}

func MsgOpening(url string) string {
	return "Opening " + truncateMiddle(url, 60)
}

func MsgOpened(url string) string {
	return "Opened " + truncateMiddle(url, 60)
}

func MsgSavedTo(path string) string {
	return "Saved to " + truncateMiddle(path, 60)
}

func MsgSaveFailed(err error) string {
	return fmt.Sprintf("Results shown, saving failed: %v", err)
}

func MsgStale(page int) string {
	return fmt.Sprintf("Page %d fetch failed, showing the last good results", page)
}

func MsgFetchFailed(err error) string {
	return fmt.Sprintf("Search failed: %v", err)
}

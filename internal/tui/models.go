package tui

type View int

const (
	// ViewResults is the main prompt with the current page on screen.
	ViewResults View = iota
	// ViewGoto asks for a page number after a bare "g".
	ViewGoto
)

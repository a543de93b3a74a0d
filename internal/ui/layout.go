package ui

import "time"

// Sticker cell geometry in terminal cells, including the border.
const (
	cellWidth  = 16
	cellHeight = 4
)

// Layout units are the coordinate space the thumbnail viewport works in. A
// sticker cell is cellUnits square, the size of one thumbnail.
const (
	unitsPerLine   = 32
	unitsPerColumn = 8
	cellUnits      = cellHeight * unitsPerLine
)

// Screen chrome.
const (
	headerLines = 2 // status bar + command bar
	footerLines = 1 // search input or last action

	// LayoutCompactWidth is the threshold below which the header drops detail.
	LayoutCompactWidth = 80
)

// Timing and log constants.
const (
	// DefaultUIInterval drives header refresh and log follow.
	DefaultUIInterval = time.Second

	// LogTailLines is how much of the log file the overlay shows.
	LogTailLines = 500
)

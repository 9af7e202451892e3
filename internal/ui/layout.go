package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which genre badges and the
	// command bar are shortened.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width for showing descriptions in the
	// list.
	LayoutWideWidth = 140
)

// Log display limits.
const (
	// LogTailLines is how many lines of the client log the log view reads.
	LogTailLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the store snapshot.
	DefaultUIInterval = time.Second
)

// Modal sizes.
const (
	detailModalWidth = 72
	formModalWidth   = 60
	noticeModalWidth = 48
	helpModalWidth   = 44
)

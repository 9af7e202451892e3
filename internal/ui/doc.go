// Package ui provides the terminal user interface for shelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds only presentation state
// (cursor, open modal, review editor, log viewport); the book collection,
// the active filter and the detail selection live in state.Store and are
// read back through Store.Snapshot after every change.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages and the commands that call the store
//   - list.go: Book list rendering and cursor handling
//   - detail.go: Detail modal with the review editor
//   - addbook.go: Add-book form
//   - notice.go: Blocking notices and the outcome-to-message mapping
//   - header.go: Status bar and command hints
//   - logs.go: Tail of shelf's own log file
//   - help.go, keys.go: Key bindings and the help overlay
//   - theme.go, style_helpers.go: Palettes and lipgloss helpers
//
// # Service Calls
//
// Every call to the book service runs as a tea.Cmd and reports back with a
// message (loadedMsg, toggledMsg, reviewSavedMsg, bookAddedMsg,
// refreshedMsg). Update never blocks on the network. Store applies a change
// only after the service confirms it, so the list shows confirmed data; rows
// with a write in flight are marked until the result arrives.
//
// # Feedback
//
// Review saves, book creation and explicit reloads end in a blocking notice.
// The message depends only on whether the service rejected the request or
// could not be reached; details go to the log. A failed read toggle is
// logged only and leaves the checkbox as it was.
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/u: Move the cursor
//   - space/x: Toggle read
//   - f: Cycle filter (All, Read, Unread); 0/1/2 pick one directly
//   - enter: Open details; ctrl+s saves the review; esc closes
//   - a: Add a book
//   - r: Reload the collection
//   - L: Client log
//   - T: Cycle theme
//   - h/?: Help
//   - e/ctrl+c: Quit
package ui

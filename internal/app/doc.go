// Package app is shelf's composition root.
//
// Run wires the pieces together in this order:
//
//  1. config.Load reads ~/.config/shelf/config.toml plus environment overrides
//  2. logging.Setup points slog at the log file (the terminal belongs to the UI)
//  3. prefs.Load restores the theme and the last filter
//  4. books.NewClient builds the HTTP client for the book service
//  5. state.NewStore creates the shared collection
//  6. StartReloader optionally reloads the collection in the background
//  7. ui.Run starts the TUI, which performs the initial load, and blocks
//
// Configuration and client errors are fatal and returned from Run. A failed
// collection load is not: the UI reports it and the user can retry.
package app

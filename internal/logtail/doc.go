// Package logtail reads the tail of shelf's own log file and decodes its
// JSON records for the in-app log view.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// proportional to the window rather than the file. A non-positive maxLines
// returns the whole file. A missing file is not an error; shelf may not have
// written anything yet.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// Parse understands the records written by slog.NewJSONHandler: time, level
// and msg become fields on Entry and every other key becomes an Attr, sorted
// by key. Anything that is not a JSON object is passed through as a plain
// message so stray lines still show up.
package logtail

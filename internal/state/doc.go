// Package state holds the in-memory book collection shared by the UI and the
// service calls it issues.
//
// # Overview
//
// Store owns three pieces of state:
//
//   - the collection: the books last returned or confirmed by the service
//   - the active filter: All, Read or Unread
//   - the selection: at most one book id targeted by the detail view
//
// The UI never edits books directly. It calls Store operations, which talk to
// the service through books.Service and apply the change locally only after
// the service accepts it.
//
// # Data Flow
//
//	UI key press
//	     │
//	     ├─> tea.Cmd goroutine ─> store.ToggleRead / SaveReview / AddBook
//	     │                              │
//	     │                              ├─> books.Service (one request)
//	     │                              └─> apply in place on success
//	     │
//	     └─> result msg ─> store.Snapshot() ─> render
//
// # Confirmed Updates
//
// A field changes in memory only after the corresponding write succeeds. A
// failed write leaves the previous value untouched and returns the
// *books.Failure to the caller, which decides how to present it. Updates are
// applied in place by id, so list length and ordering never change except
// when Load replaces the collection or AddBook appends a new record.
//
// # Write Ordering
//
// Writes that target the same book id run one at a time in the order they
// were issued. ToggleRead reads the current flag when its turn arrives, so two
// quick toggles flip the book twice rather than both sending the same value.
// Writes to different ids run concurrently.
//
// # Selection
//
// The selection is stored as an id and resolved on every Snapshot, so the
// detail view always shows the latest confirmed record. The detail view is
// open exactly when a selection exists; Select and CloseDetail change both
// together.
//
// # Concurrency Model
//
// Store is guarded by a sync.RWMutex. The lock is held only while copying or
// mutating the slice, never during network I/O. Snapshot returns deep copies
// so callers can keep them across renders.
package state

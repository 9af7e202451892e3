// Package books provides the HTTP client for the remote book service.
//
// # Overview
//
// The service is a conventional resource API rooted at a base URL
// (default http://localhost:4000). Client wraps it behind typed operations
// and is the only part of shelf that performs network I/O.
//
// # Endpoints
//
//	GET   /books            list every book
//	GET   /books/{id}       fetch one book
//	PUT   /books/{id}       update the review ({"review": ...}); PATCH when configured
//	PUT   /books/{id}/read  update the read flag ({"read": ...})
//	POST  /books            create a book ({title, description, genre, coverImage})
//
// Response bodies may be bare JSON or wrapped in {"data": ...}. Both forms are
// accepted for every endpoint.
//
// # Validation
//
// Decoded records are validated before they are returned: id must be
// positive, title non-empty and genre one of the fixed Genres. Invalid records
// inside a list are dropped and logged; an invalid single record is a
// KindInvalid failure. NewBook input is validated before any request is sent.
//
// # Errors
//
// Each operation performs exactly one request, never retries and never
// caches. Failures are logged through log/slog and returned as *Failure, whose
// Kind separates a request that never completed (KindTransport) from one the
// service refused (KindRejected). Use KindOf to classify an error.
//
// Every request carries an X-Request-ID header so that client log entries
// can be matched with service logs.
package books

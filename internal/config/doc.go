// Package config loads shelf's startup configuration.
//
// # Configuration Discovery
//
// Load resolves values in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/shelf/config.toml
//  3. Environment variables, optionally seeded from a .env file in the
//     working directory
//
// A missing config file is not an error. A file that exists but fails to
// parse is.
//
// # Default Values
//
//   - Config file: ~/.config/shelf/config.toml
//   - API endpoint: http://localhost:4000
//   - Review method: PUT
//   - Request timeout: none
//   - Background refresh: disabled
//   - Log file: ~/.local/state/shelf/shelf.log
//   - Log level: info
//
// # TOML Format
//
//	api_url = "http://localhost:4000"
//	review_method = "PATCH"
//	request_timeout = "10s"
//	refresh_interval = "5m"
//	log_file = "~/.local/state/shelf/shelf.log"
//	log_level = "debug"
//
// Every field is optional. Tilde expansion is applied to log_file.
//
// # Environment
//
//   - SHELF_API_URL
//   - SHELF_REVIEW_METHOD
//   - SHELF_LOG_FILE
//   - SHELF_LOG_LEVEL
//
// # Validation
//
// Load rejects an api_url without scheme or host, a review_method other than
// PUT or PATCH, a negative request_timeout or refresh_interval and an unknown log_level.
package config

/**
 * @description
 * Data access for the dashboard. All financial data is demo data: the stores are
 * read-only except for per-user profile and security preferences.
 */
package store

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

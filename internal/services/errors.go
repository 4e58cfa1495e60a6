/**
 * @description
 * Shared service-level errors and Postgres error classification.
 * Handlers translate these into HTTP status codes at the boundary.
 *
 * @dependencies
 * - github.com/jackc/pgconn: SQLSTATE codes from the Postgres driver
 */

package services

import (
	"errors"

	"github.com/jackc/pgconn"
)

// Postgres SQLSTATE for unique constraint violations
const pgUniqueViolation = "23505"

var (
	// ErrDeviceExists signals a registration attempt for an already
	// registered device address. Surfaced as HTTP 409.
	ErrDeviceExists = errors.New("device already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), i.e. a concurrent writer got there first.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

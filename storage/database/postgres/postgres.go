// Package postgresrepos implements the core repositories on PostgreSQL
// via sqlx. Unique violations surface as Conflict at this edge so services
// stay free of driver details.
package postgresrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

// translateErr maps driver errors to business kinds: no rows to NotFound,
// unique violations to Conflict. Anything else is wrapped as-is.
func translateErr(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Cause(err) == sql.ErrNoRows:
		return core.NotFound(notFoundMsg)
	case isUniqueViolation(err):
		return core.Conflict(conflictMsg)
	}
	return err
}

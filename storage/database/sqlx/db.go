// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/pkg/errors"
)

// trapNoRowsErr translates sql.ErrNoRows into the domain sentinel so callers
// never see driver errors.
func trapNoRowsErr(err, sentinel error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return errors.Wrap(err, msg)
}

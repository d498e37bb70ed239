package repository

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgconn"
)

// builder assembles dynamic SQL fragments (partial updates, IN lists) for
// execution through sqlx.
var builder = goqu.Dialect("postgres")

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Callers translate it into a validation error so raw engine
// text never reaches clients.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

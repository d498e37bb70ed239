package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/library-service/internal/model"
)

// newTestDB wires sqlmock behind an sqlx handle so services run against
// scripted query results.
func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func customerColumns() []string {
	return []string{"id", "name", "city", "age", "date_of_birth", "email", "phone", "status", "registration_date"}
}

func customerRow(id int, email, status string) *sqlmock.Rows {
	return sqlmock.NewRows(customerColumns()).AddRow(
		id, "Jane Doe", "Springfield", 30,
		time.Date(1995, time.May, 15, 0, 0, 0, 0, time.UTC),
		email, "555-0100", status,
		time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	)
}

func bookColumns() []string {
	return []string{"id", "name", "author", "year_published", "book_type", "category", "active", "available_copies", "description"}
}

func bookRow(id int, active bool, copies int) *sqlmock.Rows {
	return sqlmock.NewRows(bookColumns()).AddRow(
		id, "Test Book", "Test Author", 2020, "Fiction", "General", active, copies, nil,
	)
}

func loanColumns() []string {
	return []string{"id", "cust_id", "book_id", "loan_date", "return_date", "actual_return_date", "status"}
}

func loanRow(id, custID, bookID int, status string) *sqlmock.Rows {
	return sqlmock.NewRows(loanColumns()).AddRow(
		id, custID, bookID,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		nil, status,
	)
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()

	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

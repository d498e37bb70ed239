package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/config"
	"github.com/yourorg/library-service/internal/dispatch"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

func newLoanService(t *testing.T) (*LoanService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	logger := zap.NewNop()

	loanRepo := repository.NewLoanRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)
	bookRepo := repository.NewBookRepository(db, logger)
	dispatcher := dispatch.NewDispatcher(nil, logger)

	policy := config.LibraryConfig{MaxLoansPerCustomer: 2, MaxLoanDurationDays: 14}
	return NewLoanService(loanRepo, customerRepo, bookRepo, dispatcher, policy, logger), mock
}

func validLoanCreate(t *testing.T) *model.LoanCreate {
	return &model.LoanCreate{
		CustID:     1,
		BookID:     2,
		LoanDate:   mustDate(t, "2025-01-01"),
		ReturnDate: mustDate(t, "2025-01-10"),
	}
}

func TestCreateLoanCustomerMissing(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(customerColumns()))

	_, err := svc.Create(context.Background(), validLoanCreate(t))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "Customer not found", apperr.Message(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLoanBookMissing(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(bookColumns()))

	_, err := svc.Create(context.Background(), validLoanCreate(t))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "Book not found", apperr.Message(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLoanReturnBeforeLoanDate(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(bookRow(2, true, 3))

	loan := validLoanCreate(t)
	loan.LoanDate = mustDate(t, "2025-01-10")
	loan.ReturnDate = mustDate(t, "2025-01-01")

	_, err := svc.Create(context.Background(), loan)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateLoanDurationTooLong(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(bookRow(2, true, 3))

	loan := validLoanCreate(t)
	loan.ReturnDate = mustDate(t, "2025-02-01")

	_, err := svc.Create(context.Background(), loan)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, apperr.Message(err), "14 days")
}

func TestCreateLoanLimitReached(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(bookRow(2, true, 3))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_copies FROM books WHERE id = \$1 FOR UPDATE`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM loans WHERE cust_id = \$1 AND actual_return_date IS NULL`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validLoanCreate(t))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, apperr.Message(err), "2 open loans")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLoanNoCopies(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(bookRow(2, true, 0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_copies FROM books WHERE id = \$1 FOR UPDATE`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validLoanCreate(t))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "no available copies for this book", apperr.Message(err))
}

func TestCreateLoanSuccess(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM books WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(bookRow(2, true, 3))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_copies FROM books WHERE id = \$1 FOR UPDATE`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM loans WHERE cust_id = \$1 AND actual_return_date IS NULL`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO loans`).
		WillReturnRows(loanRow(7, 1, 2, model.LoanOngoing))
	mock.ExpectExec(`UPDATE books SET available_copies = available_copies - 1 WHERE id = \$1`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	loan, err := svc.Create(context.Background(), validLoanCreate(t))
	require.NoError(t, err)
	assert.Equal(t, 7, loan.ID)
	assert.Equal(t, model.LoanOngoing, loan.Status)
	assert.Nil(t, loan.ActualReturnDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLoanReturnRestoresCopy(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM loans WHERE id = \$1 FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(loanRow(7, 1, 2, model.LoanOngoing))
	mock.ExpectQuery(`UPDATE "loans" SET`).
		WillReturnRows(sqlmock.NewRows(loanColumns()).AddRow(
			7, 1, 2,
			mustDate(t, "2025-01-01").Time,
			mustDate(t, "2025-01-10").Time,
			mustDate(t, "2025-01-09").Time,
			model.LoanReturned,
		))
	mock.ExpectExec(`UPDATE books SET available_copies = available_copies \+ 1 WHERE id = \$1`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	returned := mustDate(t, "2025-01-09")
	status := model.LoanReturned
	loan, err := svc.Update(context.Background(), 7, &model.LoanUpdate{
		Status:           &status,
		ActualReturnDate: &returned,
	})
	require.NoError(t, err)
	require.NotNil(t, loan.ActualReturnDate)
	assert.Equal(t, model.LoanReturned, loan.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLoanMissing(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM loans WHERE id = \$1 FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(loanColumns()))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListOverdue(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT \* FROM loans WHERE status = \$1 AND return_date < \$2`).
		WillReturnRows(loanRow(7, 1, 2, model.LoanOngoing))

	loans, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 7, loans[0].ID)
}

func TestNotifyOverdueProjection(t *testing.T) {
	svc, mock := newLoanService(t)

	mock.ExpectQuery(`SELECT c.name AS customer_name`).
		WillReturnRows(sqlmock.NewRows([]string{"customer_name", "email", "book_title", "due_date"}).
			AddRow("Jane Doe", "jane@example.com", "Test Book", mustDate(t, "2025-01-10").Time))

	notices, err := svc.NotifyOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "jane@example.com", notices[0].Email)
	assert.Equal(t, "Test Book", notices[0].BookTitle)
	assert.Equal(t, "2025-01-10", notices[0].DueDate.String())
}

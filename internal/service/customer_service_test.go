package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

func newCustomerService(t *testing.T) (*CustomerService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	logger := zap.NewNop()

	customerRepo := repository.NewCustomerRepository(db, logger)
	loanRepo := repository.NewLoanRepository(db, logger)
	return NewCustomerService(customerRepo, loanRepo, logger), mock
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery(`INSERT INTO customers`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"})

	_, err := svc.Create(context.Background(), &model.CustomerCreate{
		Name:        "Jane Doe",
		City:        "Springfield",
		Age:         30,
		DateOfBirth: mustDate(t, "1995-05-15"),
		Email:       "jane@example.com",
		Phone:       "555-0100",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "email already in use", apperr.Message(err))
}

func TestGetCustomerMissing(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(customerColumns()))

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "Customer not found", apperr.Message(err))
}

func TestDeactivateThenActivate(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectExec(`UPDATE customers SET status = \$1 WHERE id = \$2`).
		WithArgs(model.CustomerInactive, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customers SET status = \$1 WHERE id = \$2`).
		WithArgs(model.CustomerActive, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Deactivate(context.Background(), 1))
	require.NoError(t, svc.Activate(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkSetStatusSkipsMissing(t *testing.T) {
	svc, mock := newCustomerService(t)

	// Three ids requested, only two rows exist.
	mock.ExpectExec(`UPDATE "customers" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := svc.BulkSetStatus(context.Background(), &model.BulkStatusUpdate{
		CustomerIDs: []int{1, 2, 99},
		Status:      model.CustomerInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBulkSetStatusDefaultsToInactive(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectExec(`UPDATE "customers" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := svc.BulkSetStatus(context.Background(), &model.BulkStatusUpdate{
		CustomerIDs: []int{1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBulkSetStatusEmptyIDs(t *testing.T) {
	svc, _ := newCustomerService(t)

	count, err := svc.BulkSetStatus(context.Background(), &model.BulkStatusUpdate{
		CustomerIDs: []int{},
		Status:      model.CustomerActive,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListLoansCustomerMissing(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(customerColumns()))

	_, err := svc.ListLoans(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListLoansForCustomer(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(customerRow(1, "jane@example.com", model.CustomerActive))
	mock.ExpectQuery(`SELECT \* FROM loans WHERE cust_id = \$1`).
		WithArgs(1).
		WillReturnRows(loanRow(7, 1, 2, model.LoanOngoing))

	loans, err := svc.ListLoans(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 1, loans[0].CustID)
}

func TestListInactiveCustomers(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery(`SELECT \* FROM customers WHERE status = \$1`).
		WithArgs(model.CustomerInactive).
		WillReturnRows(customerRow(3, "gone@example.com", model.CustomerInactive))

	customers, err := svc.ListInactive(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, model.CustomerInactive, customers[0].Status)
}

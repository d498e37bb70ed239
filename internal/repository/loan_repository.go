package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
)

// Loan-policy violations surfaced from the create transaction. The service
// layer translates them into validation errors.
var (
	ErrNoCopies  = errors.New("no available copies")
	ErrLoanLimit = errors.New("customer loan limit reached")
	ErrBookGone  = errors.New("book disappeared during loan creation")
)

// LoanRepository handles database operations for loans
type LoanRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *sqlx.DB, logger *zap.Logger) *LoanRepository {
	return &LoanRepository{
		db:     db,
		logger: logger,
	}
}

// Create opens a loan inside a single transaction: the book row is locked,
// copy availability and the customer's open-loan count are checked, the loan
// is inserted and one copy is taken. Either everything commits or nothing
// does.
func (r *LoanRepository) Create(ctx context.Context, loan *model.LoanCreate, maxOpenLoans int) (*model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	var copies int
	err = tx.GetContext(ctx, &copies,
		`SELECT available_copies FROM books WHERE id = $1 FOR UPDATE`, loan.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookGone
		}
		r.logger.Error("failed to lock book row", zap.Error(err), zap.Int("bookID", loan.BookID))
		return nil, err
	}
	if copies <= 0 {
		return nil, ErrNoCopies
	}

	var open int
	err = tx.GetContext(ctx, &open,
		`SELECT COUNT(*) FROM loans WHERE cust_id = $1 AND actual_return_date IS NULL`, loan.CustID)
	if err != nil {
		r.logger.Error("failed to count open loans", zap.Error(err), zap.Int("custID", loan.CustID))
		return nil, err
	}
	if open >= maxOpenLoans {
		return nil, ErrLoanLimit
	}

	status := loan.Status
	if status == "" {
		status = model.LoanOngoing
	}

	var created model.Loan
	err = tx.GetContext(
		ctx,
		&created,
		`INSERT INTO loans (cust_id, book_id, loan_date, return_date, actual_return_date, status)
		 VALUES ($1, $2, $3, $4, NULL, $5)
		 RETURNING *`,
		loan.CustID,
		loan.BookID,
		loan.LoanDate,
		loan.ReturnDate,
		status,
	)
	if err != nil {
		r.logger.Error("failed to insert loan", zap.Error(err))
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies - 1 WHERE id = $1`, loan.BookID)
	if err != nil {
		r.logger.Error("failed to decrement available copies", zap.Error(err), zap.Int("bookID", loan.BookID))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit loan creation", zap.Error(err))
		return nil, err
	}

	return &created, nil
}

// Get retrieves a loan by ID
func (r *LoanRepository) Get(ctx context.Context, id int) (*model.Loan, error) {
	query := `SELECT * FROM loans WHERE id = $1`

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get loan", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &loan, nil
}

// List retrieves all loans unfiltered
func (r *LoanRepository) List(ctx context.Context) ([]model.Loan, error) {
	query := `SELECT * FROM loans ORDER BY id`

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		r.logger.Error("failed to list loans", zap.Error(err))
		return nil, err
	}

	return loans, nil
}

// ListByCustomer retrieves all loans for one customer regardless of status
func (r *LoanRepository) ListByCustomer(ctx context.Context, custID int) ([]model.Loan, error) {
	query := `SELECT * FROM loans WHERE cust_id = $1 ORDER BY id`

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, custID); err != nil {
		r.logger.Error("failed to list customer loans", zap.Error(err), zap.Int("custID", custID))
		return nil, err
	}

	return loans, nil
}

// Update mutates a loan's status and/or actual return date. Marking an open
// loan as returned gives the copy back to the book in the same transaction.
// Returns nil when the loan does not exist.
func (r *LoanRepository) Update(ctx context.Context, id int, update *model.LoanUpdate) (*model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	var current model.Loan
	err = tx.GetContext(ctx, &current, `SELECT * FROM loans WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to lock loan row", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	record := goqu.Record{}
	if update.Status != nil {
		record["status"] = *update.Status
	}
	if update.ActualReturnDate != nil {
		record["actual_return_date"] = update.ActualReturnDate.Time
	}

	if len(record) == 0 {
		return &current, tx.Commit()
	}

	query, args, err := builder.Update("loans").
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.Star()).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build loan update", zap.Error(err))
		return nil, err
	}

	var updated model.Loan
	if err := tx.GetContext(ctx, &updated, query, args...); err != nil {
		r.logger.Error("failed to update loan", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	if update.ActualReturnDate != nil && current.ActualReturnDate == nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE books SET available_copies = available_copies + 1 WHERE id = $1`, current.BookID)
		if err != nil {
			r.logger.Error("failed to restore available copy", zap.Error(err), zap.Int("bookID", current.BookID))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit loan update", zap.Error(err))
		return nil, err
	}

	return &updated, nil
}

// Delete hard-deletes a loan. Deleting an open loan gives the copy back to
// the book. Returns false when the loan does not exist.
func (r *LoanRepository) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	var current model.Loan
	err = tx.GetContext(ctx, &current, `SELECT * FROM loans WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		r.logger.Error("failed to lock loan row", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id); err != nil {
		r.logger.Error("failed to delete loan", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	if current.ActualReturnDate == nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE books SET available_copies = available_copies + 1 WHERE id = $1`, current.BookID)
		if err != nil {
			r.logger.Error("failed to restore available copy", zap.Error(err), zap.Int("bookID", current.BookID))
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit loan deletion", zap.Error(err))
		return false, err
	}

	return true, nil
}

// ListOverdue retrieves loans still marked ongoing whose due date has
// passed. The cutoff is evaluated at call time, never cached.
func (r *LoanRepository) ListOverdue(ctx context.Context, today model.Date) ([]model.Loan, error) {
	query := `SELECT * FROM loans WHERE status = $1 AND return_date < $2 ORDER BY id`

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, model.LoanOngoing, today); err != nil {
		r.logger.Error("failed to list overdue loans", zap.Error(err))
		return nil, err
	}

	return loans, nil
}

// OverdueNotices joins the overdue set with its customers and books. Inner
// joins drop loans whose parent rows are missing rather than failing the
// whole projection.
func (r *LoanRepository) OverdueNotices(ctx context.Context, today model.Date) ([]model.OverdueNotice, error) {
	query := `
		SELECT c.name AS customer_name, c.email AS email, b.name AS book_title, l.return_date AS due_date
		FROM loans l
		JOIN customers c ON c.id = l.cust_id
		JOIN books b ON b.id = l.book_id
		WHERE l.status = $1 AND l.return_date < $2
		ORDER BY l.id`

	notices := []model.OverdueNotice{}
	if err := r.db.SelectContext(ctx, &notices, query, model.LoanOngoing, today); err != nil {
		r.logger.Error("failed to build overdue notices", zap.Error(err))
		return nil, err
	}

	return notices, nil
}

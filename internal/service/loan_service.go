package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/config"
	"github.com/yourorg/library-service/internal/dispatch"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

// LoanService owns the loan lifecycle: creation preconditions, the derived
// overdue condition, and availability accounting.
type LoanService struct {
	loanRepo     *repository.LoanRepository
	customerRepo *repository.CustomerRepository
	bookRepo     *repository.BookRepository
	dispatcher   *dispatch.Dispatcher
	policy       config.LibraryConfig
	logger       *zap.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo *repository.LoanRepository,
	customerRepo *repository.CustomerRepository,
	bookRepo *repository.BookRepository,
	dispatcher *dispatch.Dispatcher,
	policy config.LibraryConfig,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		bookRepo:     bookRepo,
		dispatcher:   dispatcher,
		policy:       policy,
		logger:       logger,
	}
}

// Create opens a loan after checking every precondition: both parents exist,
// the dates are ordered, the duration fits the policy, the customer is under
// the open-loan cap and the book has a free copy.
func (s *LoanService) Create(ctx context.Context, loan *model.LoanCreate) (*model.Loan, error) {
	customer, err := s.customerRepo.Get(ctx, loan.CustID)
	if err != nil {
		return nil, apperr.Wrap("failed to get customer", err)
	}
	if customer == nil {
		return nil, apperr.NotFound("Customer not found")
	}

	book, err := s.bookRepo.Get(ctx, loan.BookID)
	if err != nil {
		return nil, apperr.Wrap("failed to get book", err)
	}
	if book == nil {
		return nil, apperr.NotFound("Book not found")
	}

	if loan.ReturnDate.Before(loan.LoanDate) {
		return nil, apperr.Validation("return_date must be on or after loan_date")
	}
	if days := loan.LoanDate.DaysUntil(loan.ReturnDate); days > s.policy.MaxLoanDurationDays {
		return nil, apperr.Validation(fmt.Sprintf(
			"loan duration exceeds the maximum of %d days", s.policy.MaxLoanDurationDays))
	}

	created, err := s.loanRepo.Create(ctx, loan, s.policy.MaxLoansPerCustomer)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLoanLimit):
			return nil, apperr.Validation(fmt.Sprintf(
				"customer has reached the maximum of %d open loans", s.policy.MaxLoansPerCustomer))
		case errors.Is(err, repository.ErrNoCopies):
			return nil, apperr.Validation("no available copies for this book")
		case errors.Is(err, repository.ErrBookGone):
			return nil, apperr.NotFound("Book not found")
		}
		return nil, apperr.Wrap("failed to create loan", err)
	}

	return created, nil
}

// Get returns a loan by ID
func (s *LoanService) Get(ctx context.Context, id int) (*model.Loan, error) {
	loan, err := s.loanRepo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get loan", err)
	}
	if loan == nil {
		return nil, apperr.NotFound("Loan not found")
	}
	return loan, nil
}

// List returns all loans unfiltered
func (s *LoanService) List(ctx context.Context) ([]model.Loan, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap("failed to list loans", err)
	}
	return loans, nil
}

// Update mutates only the status and/or actual return date of a loan
func (s *LoanService) Update(ctx context.Context, id int, update *model.LoanUpdate) (*model.Loan, error) {
	loan, err := s.loanRepo.Update(ctx, id, update)
	if err != nil {
		return nil, apperr.Wrap("failed to update loan", err)
	}
	if loan == nil {
		return nil, apperr.NotFound("Loan not found")
	}
	return loan, nil
}

// Delete hard-deletes a loan
func (s *LoanService) Delete(ctx context.Context, id int) error {
	found, err := s.loanRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap("failed to delete loan", err)
	}
	if !found {
		return apperr.NotFound("Loan not found")
	}
	return nil
}

// ListOverdue returns ongoing loans past their due date as of now
func (s *LoanService) ListOverdue(ctx context.Context) ([]model.Loan, error) {
	loans, err := s.loanRepo.ListOverdue(ctx, model.Today())
	if err != nil {
		return nil, apperr.Wrap("failed to list overdue loans", err)
	}
	return loans, nil
}

// NotifyOverdue computes the overdue projection and hands it to the
// dispatcher. The response does not wait for delivery.
func (s *LoanService) NotifyOverdue(ctx context.Context) ([]model.OverdueNotice, error) {
	notices, err := s.loanRepo.OverdueNotices(ctx, model.Today())
	if err != nil {
		return nil, apperr.Wrap("failed to compute overdue notices", err)
	}

	s.dispatcher.DispatchOverdueNotices(notices)

	return notices, nil
}

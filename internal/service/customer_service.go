package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

// CustomerService handles customer registry operations
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	loanRepo     *repository.LoanRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	loanRepo *repository.LoanRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		logger:       logger,
	}
}

// Create registers a customer. A duplicate email is a validation failure,
// not a fault.
func (s *CustomerService) Create(ctx context.Context, customer *model.CustomerCreate) (*model.Customer, error) {
	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("email already in use")
		}
		return nil, apperr.Wrap("failed to create customer", err)
	}
	return created, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id int) (*model.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get customer", err)
	}
	if customer == nil {
		return nil, apperr.NotFound("Customer not found")
	}
	return customer, nil
}

// List returns all customers regardless of status
func (s *CustomerService) List(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap("failed to list customers", err)
	}
	return customers, nil
}

// ListInactive returns all soft-deleted customers
func (s *CustomerService) ListInactive(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customerRepo.ListByStatus(ctx, model.CustomerInactive)
	if err != nil {
		return nil, apperr.Wrap("failed to list inactive customers", err)
	}
	return customers, nil
}

// Update merges the provided fields over an existing customer
func (s *CustomerService) Update(ctx context.Context, id int, update *model.CustomerUpdate) (*model.Customer, error) {
	customer, err := s.customerRepo.Update(ctx, id, update)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("email already in use")
		}
		return nil, apperr.Wrap("failed to update customer", err)
	}
	if customer == nil {
		return nil, apperr.NotFound("Customer not found")
	}
	return customer, nil
}

// Deactivate marks a customer inactive. The row and its loan history stay.
func (s *CustomerService) Deactivate(ctx context.Context, id int) error {
	return s.setStatus(ctx, id, model.CustomerInactive)
}

// Activate marks a customer active again
func (s *CustomerService) Activate(ctx context.Context, id int) error {
	return s.setStatus(ctx, id, model.CustomerActive)
}

func (s *CustomerService) setStatus(ctx context.Context, id int, status string) error {
	found, err := s.customerRepo.SetStatus(ctx, id, status)
	if err != nil {
		return apperr.Wrap("failed to set customer status", err)
	}
	if !found {
		return apperr.NotFound("Customer not found")
	}
	return nil
}

// BulkSetStatus applies one status to all matching customers and reports how
// many rows were actually updated. Missing ids are skipped, not failed.
func (s *CustomerService) BulkSetStatus(ctx context.Context, update *model.BulkStatusUpdate) (int, error) {
	status := update.Status
	if status == "" {
		status = model.CustomerInactive
	}

	count, err := s.customerRepo.BulkSetStatus(ctx, update.CustomerIDs, status)
	if err != nil {
		return 0, apperr.Wrap("failed to bulk update customer status", err)
	}
	return count, nil
}

// ListLoans returns all loans for one customer, any status
func (s *CustomerService) ListLoans(ctx context.Context, id int) ([]model.Loan, error) {
	customer, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get customer", err)
	}
	if customer == nil {
		return nil, apperr.NotFound("Customer not found")
	}

	loans, err := s.loanRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to list customer loans", err)
	}
	return loans, nil
}

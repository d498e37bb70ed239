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

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sqlx.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Create registers a new customer. A duplicate email surfaces as a
// unique-constraint violation for the service layer to translate.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.CustomerCreate) (*model.Customer, error) {
	query := `
		INSERT INTO customers (name, city, age, date_of_birth, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *`

	status := customer.Status
	if status == "" {
		status = model.CustomerActive
	}

	var created model.Customer
	err := r.db.GetContext(
		ctx,
		&created,
		query,
		customer.Name,
		customer.City,
		customer.Age,
		customer.DateOfBirth,
		customer.Email,
		customer.Phone,
		status,
	)

	if err != nil {
		if !IsUniqueViolation(err) {
			r.logger.Error("failed to create customer", zap.Error(err))
		}
		return nil, err
	}

	return &created, nil
}

// Get retrieves a customer by ID
func (r *CustomerRepository) Get(ctx context.Context, id int) (*model.Customer, error) {
	query := `SELECT * FROM customers WHERE id = $1`

	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get customer", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &customer, nil
}

// List retrieves all customers regardless of status
func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	query := `SELECT * FROM customers ORDER BY id`

	customers := []model.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		r.logger.Error("failed to list customers", zap.Error(err))
		return nil, err
	}

	return customers, nil
}

// ListByStatus retrieves all customers with the given status
func (r *CustomerRepository) ListByStatus(ctx context.Context, status string) ([]model.Customer, error) {
	query := `SELECT * FROM customers WHERE status = $1 ORDER BY id`

	customers := []model.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, status); err != nil {
		r.logger.Error("failed to list customers by status", zap.Error(err), zap.String("status", status))
		return nil, err
	}

	return customers, nil
}

// Update merges the provided fields over an existing customer. Returns nil
// when the customer does not exist.
func (r *CustomerRepository) Update(ctx context.Context, id int, update *model.CustomerUpdate) (*model.Customer, error) {
	record := goqu.Record{}
	if update.Name != nil {
		record["name"] = *update.Name
	}
	if update.City != nil {
		record["city"] = *update.City
	}
	if update.Age != nil {
		record["age"] = *update.Age
	}
	if update.DateOfBirth != nil {
		record["date_of_birth"] = update.DateOfBirth.Time
	}
	if update.Email != nil {
		record["email"] = *update.Email
	}
	if update.Phone != nil {
		record["phone"] = *update.Phone
	}
	if update.Status != nil {
		record["status"] = *update.Status
	}

	if len(record) == 0 {
		return r.Get(ctx, id)
	}

	query, args, err := builder.Update("customers").
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.Star()).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build customer update", zap.Error(err))
		return nil, err
	}

	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if !IsUniqueViolation(err) {
			r.logger.Error("failed to update customer", zap.Error(err), zap.Int("id", id))
		}
		return nil, err
	}

	return &customer, nil
}

// SetStatus flips a customer's status. Returns false when the customer does
// not exist.
func (r *CustomerRepository) SetStatus(ctx context.Context, id int, status string) (bool, error) {
	query := `UPDATE customers SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("failed to set customer status", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// BulkSetStatus applies one status to all matching customers in a single
// statement. Missing ids are skipped; the count of rows actually updated is
// returned.
func (r *CustomerRepository) BulkSetStatus(ctx context.Context, ids []int, status string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := builder.Update("customers").
		Set(goqu.Record{"status": status}).
		Where(goqu.C("id").In(ids)).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build bulk status update", zap.Error(err))
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to bulk update customer status", zap.Error(err))
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

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

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *sqlx.DB, logger *zap.Logger) *AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new admin account. Only the password hash is persisted.
func (r *AdminRepository) Create(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	query := `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING *`

	var created model.Admin
	if err := r.db.GetContext(ctx, &created, query, username, passwordHash); err != nil {
		if !IsUniqueViolation(err) {
			r.logger.Error("failed to create admin", zap.Error(err))
		}
		return nil, err
	}

	return &created, nil
}

// Get retrieves an admin by ID
func (r *AdminRepository) Get(ctx context.Context, id int) (*model.Admin, error) {
	query := `SELECT * FROM admins WHERE id = $1`

	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get admin", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &admin, nil
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `SELECT * FROM admins WHERE username = $1`

	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get admin by username", zap.Error(err), zap.String("username", username))
		return nil, err
	}

	return &admin, nil
}

// Update rotates the username and/or password hash. Returns nil when the
// admin does not exist.
func (r *AdminRepository) Update(ctx context.Context, id int, username, passwordHash *string) (*model.Admin, error) {
	record := goqu.Record{}
	if username != nil {
		record["username"] = *username
	}
	if passwordHash != nil {
		record["password_hash"] = *passwordHash
	}

	if len(record) == 0 {
		return r.Get(ctx, id)
	}

	query, args, err := builder.Update("admins").
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.Star()).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build admin update", zap.Error(err))
		return nil, err
	}

	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if !IsUniqueViolation(err) {
			r.logger.Error("failed to update admin", zap.Error(err), zap.Int("id", id))
		}
		return nil, err
	}

	return &admin, nil
}

// Delete hard-deletes an admin account. Returns false when it does not
// exist.
func (r *AdminRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM admins WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete admin", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

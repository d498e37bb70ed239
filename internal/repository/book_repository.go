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

// BookRepository handles database operations for books
type BookRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *sqlx.DB, logger *zap.Logger) *BookRepository {
	return &BookRepository{
		db:     db,
		logger: logger,
	}
}

// Create adds a new book to the catalog. New books start active with one
// available copy unless told otherwise.
func (r *BookRepository) Create(ctx context.Context, book *model.BookCreate) (*model.Book, error) {
	query := `
		INSERT INTO books (name, author, year_published, book_type, category, active, available_copies, description)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
		RETURNING *`

	category := book.Category
	if category == "" {
		category = "General"
	}
	copies := 1
	if book.AvailableCopies != nil {
		copies = *book.AvailableCopies
	}

	var created model.Book
	err := r.db.GetContext(
		ctx,
		&created,
		query,
		book.Name,
		book.Author,
		book.YearPublished,
		book.BookType,
		category,
		copies,
		book.Description,
	)

	if err != nil {
		r.logger.Error("failed to create book", zap.Error(err))
		return nil, err
	}

	return &created, nil
}

// ListActive retrieves all active books
func (r *BookRepository) ListActive(ctx context.Context) ([]model.Book, error) {
	query := `SELECT * FROM books WHERE active = TRUE ORDER BY id`

	books := []model.Book{}
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		r.logger.Error("failed to list books", zap.Error(err))
		return nil, err
	}

	return books, nil
}

// GetActive retrieves a book by ID only if it is active
func (r *BookRepository) GetActive(ctx context.Context, id int) (*model.Book, error) {
	query := `SELECT * FROM books WHERE id = $1 AND active = TRUE`

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get book", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &book, nil
}

// Get retrieves a book by ID regardless of its active flag
func (r *BookRepository) Get(ctx context.Context, id int) (*model.Book, error) {
	query := `SELECT * FROM books WHERE id = $1`

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get book", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &book, nil
}

// Update merges the provided fields over an existing book. It applies to
// inactive books as well. Returns nil when the book does not exist.
func (r *BookRepository) Update(ctx context.Context, id int, update *model.BookUpdate) (*model.Book, error) {
	record := goqu.Record{}
	if update.Name != nil {
		record["name"] = *update.Name
	}
	if update.Author != nil {
		record["author"] = *update.Author
	}
	if update.YearPublished != nil {
		record["year_published"] = *update.YearPublished
	}
	if update.BookType != nil {
		record["book_type"] = *update.BookType
	}
	if update.Category != nil {
		record["category"] = *update.Category
	}
	if update.AvailableCopies != nil {
		record["available_copies"] = *update.AvailableCopies
	}
	if update.Description != nil {
		record["description"] = *update.Description
	}

	if len(record) == 0 {
		return r.Get(ctx, id)
	}

	query, args, err := builder.Update("books").
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(goqu.Star()).
		Prepared(true).
		ToSQL()
	if err != nil {
		r.logger.Error("failed to build book update", zap.Error(err))
		return nil, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to update book", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &book, nil
}

// Deactivate soft-deletes a book. Idempotent; returns false when the book
// does not exist.
func (r *BookRepository) Deactivate(ctx context.Context, id int) (bool, error) {
	query := `UPDATE books SET active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to deactivate book", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

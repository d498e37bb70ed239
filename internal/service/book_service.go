package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

// BookService handles catalog operations
type BookService struct {
	bookRepo *repository.BookRepository
	logger   *zap.Logger
}

// NewBookService creates a new book service
func NewBookService(bookRepo *repository.BookRepository, logger *zap.Logger) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// Create adds a book to the catalog
func (s *BookService) Create(ctx context.Context, book *model.BookCreate) (*model.Book, error) {
	created, err := s.bookRepo.Create(ctx, book)
	if err != nil {
		return nil, apperr.Wrap("failed to create book", err)
	}
	return created, nil
}

// List returns all active books
func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.bookRepo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap("failed to list books", err)
	}
	return books, nil
}

// Get returns a book only if it exists and is active
func (s *BookService) Get(ctx context.Context, id int) (*model.Book, error) {
	book, err := s.bookRepo.GetActive(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get book", err)
	}
	if book == nil {
		return nil, apperr.NotFound("Book not found")
	}
	return book, nil
}

// Update merges the provided fields over an existing book, active or not
func (s *BookService) Update(ctx context.Context, id int, update *model.BookUpdate) (*model.Book, error) {
	book, err := s.bookRepo.Update(ctx, id, update)
	if err != nil {
		return nil, apperr.Wrap("failed to update book", err)
	}
	if book == nil {
		return nil, apperr.NotFound("Book not found")
	}
	return book, nil
}

// Deactivate soft-deletes a book
func (s *BookService) Deactivate(ctx context.Context, id int) error {
	found, err := s.bookRepo.Deactivate(ctx, id)
	if err != nil {
		return apperr.Wrap("failed to deactivate book", err)
	}
	if !found {
		return apperr.NotFound("Book not found")
	}
	return nil
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/service"
)

// BookHandler handles catalog HTTP requests
type BookHandler struct {
	bookService *service.BookService
	logger      *zap.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		logger:      logger,
	}
}

// Create handles adding a book to the catalog
// POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var request model.BookCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusCreated, book)
}

// List handles listing all active books
// GET /books
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.bookService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, books)
}

// Get handles fetching one active book
// GET /books/{id}
func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Update handles a partial book update, active or not
// PUT /books/{id}
func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var request model.BookUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), id, &request)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Deactivate handles soft-deleting a book
// PATCH /books/{id}/deactivate
func (h *BookHandler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	if err := h.bookService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deactivated successfully"})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/service"
)

// LoanHandler handles loan lifecycle HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
	logger      *zap.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// Create handles opening a loan
// POST /loans
func (h *LoanHandler) Create(c *gin.Context) {
	var request model.LoanCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// List handles listing all loans
// GET /loans
func (h *LoanHandler) List(c *gin.Context) {
	loans, err := h.loanService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, loans)
}

// Get handles fetching one loan
// GET /loans/{id}
func (h *LoanHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid loan ID"})
		return
	}

	loan, err := h.loanService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Update handles mutating a loan's status and/or actual return date
// PUT /loans/{id}
func (h *LoanHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid loan ID"})
		return
	}

	var request model.LoanUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), id, &request)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Delete handles hard-deleting a loan
// DELETE /loans/{id}
func (h *LoanHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid loan ID"})
		return
	}

	if err := h.loanService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListOverdue handles listing ongoing loans past their due date
// GET /loans/overdue
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	loans, err := h.loanService.ListOverdue(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, loans)
}

// NotifyOverdue computes the overdue projection, hands it to the dispatcher
// and returns it without waiting for delivery
// GET /loans/overdue/notify
func (h *LoanHandler) NotifyOverdue(c *gin.Context) {
	notices, err := h.loanService.NotifyOverdue(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, notices)
}

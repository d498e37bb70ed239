package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/service"
)

// CustomerHandler handles customer registry HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// Create handles registering a customer
// POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var request model.CustomerCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// List handles listing all customers
// GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// ListInactive handles listing soft-deleted customers
// GET /customers/inactive
func (h *CustomerHandler) ListInactive(c *gin.Context) {
	customers, err := h.customerService.ListInactive(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// Get handles fetching one customer
// GET /customers/{id}
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Update handles a partial customer update
// PUT /customers/{id}
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var request model.CustomerUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, &request)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Deactivate handles soft-deleting a customer. The row stays; only the
// status flips.
// DELETE /customers/{id}
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if err := h.customerService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer marked as inactive"})
}

// Activate handles reactivating a customer
// PATCH /customers/{id}/activate
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if err := h.customerService.Activate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer reactivated successfully"})
}

// BulkUpdateStatus applies one status to many customers and reports the
// number actually updated
// POST /customers/bulk_update_status
func (h *CustomerHandler) BulkUpdateStatus(c *gin.Context) {
	var request model.BulkStatusUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.customerService.BulkSetStatus(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d customers updated successfully", count)})
}

// ListLoans handles listing all loans for one customer
// GET /customers/{id}/loans
func (h *CustomerHandler) ListLoans(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	loans, err := h.customerService.ListLoans(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, loans)
}

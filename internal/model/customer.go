package model

import (
	"time"
)

// Customer statuses. Customers are never hard-deleted; deactivation flips
// the status so loan history stays intact.
const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

// Customer represents a registered library customer.
type Customer struct {
	ID               int       `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	City             string    `json:"city" db:"city"`
	Age              int       `json:"age" db:"age"`
	DateOfBirth      Date      `json:"date_of_birth" db:"date_of_birth"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Status           string    `json:"status" db:"status"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// CustomerCreate represents data needed to register a customer.
type CustomerCreate struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city" binding:"required"`
	Age         int    `json:"age" binding:"required,min=0"`
	DateOfBirth Date   `json:"date_of_birth" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CustomerUpdate represents a partial update; nil fields are left untouched.
type CustomerUpdate struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Age         *int    `json:"age" binding:"omitempty,min=0"`
	DateOfBirth *Date   `json:"date_of_birth"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// BulkStatusUpdate applies one status to many customers at once. Missing ids
// are skipped rather than failing the batch.
type BulkStatusUpdate struct {
	CustomerIDs []int  `json:"customer_ids" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

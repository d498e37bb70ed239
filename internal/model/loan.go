package model

// Loan statuses. Overdue is never stored; it is derived from the due date
// and the absence of an actual return date at query time.
const (
	LoanOngoing  = "ongoing"
	LoanReturned = "returned"
)

// Loan links one customer to one book for a bounded period.
type Loan struct {
	ID               int    `json:"id" db:"id"`
	CustID           int    `json:"cust_id" db:"cust_id"`
	BookID           int    `json:"book_id" db:"book_id"`
	LoanDate         Date   `json:"loan_date" db:"loan_date"`
	ReturnDate       Date   `json:"return_date" db:"return_date"`
	ActualReturnDate *Date  `json:"actual_return_date" db:"actual_return_date"`
	Status           string `json:"status" db:"status"`
}

// IsOverdue reports whether the loan is unreturned past its due date,
// evaluated against today.
func (l *Loan) IsOverdue(today Date) bool {
	return l.ActualReturnDate == nil && l.ReturnDate.Before(today)
}

// LoanCreate represents data needed to open a loan.
type LoanCreate struct {
	CustID     int    `json:"cust_id" binding:"required"`
	BookID     int    `json:"book_id" binding:"required"`
	LoanDate   Date   `json:"loan_date" binding:"required"`
	ReturnDate Date   `json:"return_date" binding:"required"`
	Status     string `json:"status" binding:"omitempty,oneof=ongoing returned"`
}

// LoanUpdate allows mutating only the status and the actual return date.
type LoanUpdate struct {
	Status           *string `json:"status" binding:"omitempty,oneof=ongoing returned"`
	ActualReturnDate *Date   `json:"actual_return_date"`
}

// OverdueNotice is the projection handed to the notification dispatcher for
// each overdue loan.
type OverdueNotice struct {
	CustomerName string `json:"customer_name" db:"customer_name"`
	Email        string `json:"email" db:"email"`
	BookTitle    string `json:"book_title" db:"book_title"`
	DueDate      Date   `json:"due_date" db:"due_date"`
}

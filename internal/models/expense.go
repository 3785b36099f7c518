package models

import "fmt"

type ExpenseCategory string

const (
	ExpenseFuel   ExpenseCategory = "fuel"
	ExpenseToll   ExpenseCategory = "toll"
	ExpenseVAT    ExpenseCategory = "vat"
	ExpenseRental ExpenseCategory = "rental"
	ExpenseOther  ExpenseCategory = "other"
)

// Label returns the code the operators use in spreadsheets.
func (c ExpenseCategory) Label() string {
	switch c {
	case ExpenseFuel:
		return "combustivel"
	case ExpenseToll:
		return "portagem"
	case ExpenseVAT:
		return "iva"
	case ExpenseRental:
		return "aluguel"
	default:
		return "outros"
	}
}

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// Expense is a cost booked against a driver, or against the fleet when
// DriverID is empty.
type Expense struct {
	ID          string          `json:"id"`
	DriverID    string          `json:"driver_id,omitempty"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	VATAmount   float64         `json:"iva_amount,omitempty"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Status      ExpenseStatus   `json:"status"`
}

// Deductible reports whether the expense is subtracted from the driver's payout.
// VAT and other expenses are tracked for tax reporting only.
func (e *Expense) Deductible() bool {
	if e.Status != ExpenseApproved {
		return false
	}
	switch e.Category {
	case ExpenseToll, ExpenseFuel, ExpenseRental:
		return true
	}
	return false
}

func (e *Expense) Validate() error {
	switch e.Category {
	case ExpenseFuel, ExpenseToll, ExpenseVAT, ExpenseRental, ExpenseOther:
	default:
		return fmt.Errorf("%w: unknown expense category %q", ErrValidation, e.Category)
	}
	switch e.Status {
	case ExpensePending, ExpenseApproved, ExpenseRejected:
	default:
		return fmt.Errorf("%w: unknown expense status %q", ErrValidation, e.Status)
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	}
	return nil
}

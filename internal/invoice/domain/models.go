// Package domain contains persistence models and contracts for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusVoid    InvoiceStatus = "VOID"
)

// Closed reports whether the status is terminal.
func (s InvoiceStatus) Closed() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// Invoice represents an amount owed by a customer with a due date and
// lifecycle status.
type Invoice struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerName string          `gorm:"type:text" json:"customer_name,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaidAmount   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"paid_amount"`
	DueDate      time.Time       `gorm:"not null;index" json:"due_date"`
	Status       InvoiceStatus   `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// DisplayStatus returns the caller-facing status label. PARTIAL is derived
// from the paid amount and is never persisted.
func (i Invoice) DisplayStatus() string {
	if i.Status == InvoiceStatusPending &&
		i.PaidAmount.GreaterThan(decimal.Zero) &&
		i.PaidAmount.LessThan(i.Amount) {
		return "PARTIAL"
	}
	return string(i.Status)
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	CustomerName string
	Amount       decimal.Decimal
	DueDate      time.Time
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status  *InvoiceStatus
	DueFrom *time.Time
	DueTo   *time.Time
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// PaymentResult reports the outcome of a payment application.
type PaymentResult struct {
	InvoiceID     snowflake.ID    `json:"invoice_id"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        InvoiceStatus   `json:"status"`
	DisplayStatus string          `json:"display_status"`
	Message       string          `json:"message"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	ApplyPayment(ctx context.Context, id snowflake.ID, amount decimal.Decimal) (PaymentResult, error)
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidDueDate = errors.New("invalid_due_date")
)

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListInvoiceFilter narrows List results.
type ListInvoiceFilter struct {
	Status  *InvoiceStatus
	DueFrom *time.Time
	DueTo   *time.Time
}

// Repository is the durable invoice store. FindByID returns (nil, nil) when
// the id is unknown.
type Repository interface {
	WithTrx(tx *gorm.DB) Repository
	Insert(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	FindByStatusDueBefore(ctx context.Context, status InvoiceStatus, cutoff time.Time) ([]*Invoice, error)
	List(ctx context.Context, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
}

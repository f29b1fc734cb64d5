package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerline/internal/invoice/domain"
	"github.com/smallbiznis/ledgerline/pkg/db/option"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
	"github.com/smallbiznis/ledgerline/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Invoice]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Invoice](db)}
}

func (r *repo) WithTrx(tx *gorm.DB) domain.Repository {
	return &repo{store: r.store.WithTrx(tx)}
}

func (r *repo) Insert(ctx context.Context, invoice *domain.Invoice) error {
	return r.store.Create(ctx, invoice)
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	// An explicit condition keeps a zero id filtered; gorm drops zero-valued
	// struct fields, which would turn this into an unfiltered First.
	return r.store.FindOne(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{
			Field:    "id",
			Operator: option.EQ,
			Value:    id,
		}),
	)
}

func (r *repo) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.store.Save(ctx, invoice)
}

func (r *repo) FindByStatusDueBefore(ctx context.Context, status domain.InvoiceStatus, cutoff time.Time) ([]*domain.Invoice, error) {
	return r.store.Find(ctx, &domain.Invoice{Status: status},
		option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.LT,
			Value:    cutoff,
		}),
		option.WithOrder("due_date asc, id asc"),
	)
}

func (r *repo) List(ctx context.Context, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	query := &domain.Invoice{}
	if filter.Status != nil {
		query.Status = *filter.Status
	}

	opts := []option.QueryOption{}
	if filter.DueFrom != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.GTE,
			Value:    *filter.DueFrom,
		}))
	}
	if filter.DueTo != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.LTE,
			Value:    *filter.DueTo,
		}))
	}
	opts = append(opts,
		option.WithOrder("created_at desc, id desc"),
		option.ApplyPagination(pagination.Pagination{
			// over-fetch one row so the service can report has_more
			PageSize: normalizeSize(page.PageSize) + 1,
			Offset:   page.Offset,
		}),
	)

	return r.store.Find(ctx, query, opts...)
}

func normalizeSize(size int) int {
	if size <= 0 {
		return pagination.DefaultPageSize
	}
	return size
}

package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	invoicedomain "github.com/smallbiznis/ledgerline/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/ledgerline/internal/observability/metrics"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  invoicedomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  invoicedomain.Repository
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	if !req.Amount.GreaterThan(decimal.Zero) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidAmount
	}
	if req.DueDate.IsZero() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidDueDate
	}

	now := s.clock.Now()
	invoice := invoicedomain.Invoice{
		ID:           s.genID.Generate(),
		CustomerName: req.CustomerName,
		Amount:       req.Amount,
		PaidAmount:   decimal.Zero,
		DueDate:      invoicedomain.DateOnly(req.DueDate),
		Status:       invoicedomain.InvoiceStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, &invoice); err != nil {
		s.log.Error("insert invoice", zap.Error(err))
		return invoicedomain.Invoice{}, err
	}

	obsmetrics.Default().InvoicesCreated.Inc()
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("amount", invoice.Amount.String()),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	filter := invoicedomain.ListInvoiceFilter{
		Status:  req.Status,
		DueFrom: req.DueFrom,
		DueTo:   req.DueTo,
	}

	items, err := s.repo.List(ctx, filter, req.Pagination)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = pagination.DefaultPageSize
	}
	items, pageInfo := pagination.BuildPageInfo(items, size)

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return invoicedomain.ListInvoiceResponse{
		PageInfo: pageInfo,
		Invoices: invoices,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *item, nil
}

// ApplyPayment adds a payment to an invoice and moves it to PAID once the
// cumulative paid amount covers the total. Payments against closed invoices
// are not guarded; see the open question recorded in DESIGN.md.
func (s *Service) ApplyPayment(ctx context.Context, id snowflake.ID, amount decimal.Decimal) (invoicedomain.PaymentResult, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return invoicedomain.PaymentResult{}, invoicedomain.ErrInvalidAmount
	}

	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return invoicedomain.PaymentResult{}, err
	}
	if invoice == nil {
		return invoicedomain.PaymentResult{}, invoicedomain.ErrNotFound
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(amount)
	if invoice.PaidAmount.GreaterThanOrEqual(invoice.Amount) {
		invoice.Status = invoicedomain.InvoiceStatusPaid
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, invoice); err != nil {
		s.log.Error("update invoice payment",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return invoicedomain.PaymentResult{}, err
	}

	obsmetrics.Default().PaymentsApplied.Inc()
	s.log.Info("payment applied",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("paid_amount", invoice.PaidAmount.String()),
		zap.String("status", string(invoice.Status)),
	)

	return invoicedomain.PaymentResult{
		InvoiceID:     invoice.ID,
		PaidAmount:    invoice.PaidAmount,
		Status:        invoice.Status,
		DisplayStatus: invoice.DisplayStatus(),
		Message:       "Payment processed successfully.",
	}, nil
}

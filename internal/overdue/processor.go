// Package overdue sweeps past-due invoices and rolls them over into
// successors carrying a late fee.
package overdue

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	invoicedomain "github.com/smallbiznis/ledgerline/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/ledgerline/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProcessRequest struct {
	OverdueDays int
	LateFee     decimal.Decimal
}

// Result aggregates a sweep. ProcessedCount is the number of candidates
// selected, not the number successfully rolled over; the two diverge when
// individual rollovers fail.
type Result struct {
	ProcessedCount int            `json:"processed_count"`
	NewInvoiceIDs  []snowflake.ID `json:"new_invoice_ids"`
	Message        string         `json:"message"`
}

var (
	ErrInvalidOverdueDays = errors.New("invalid_overdue_days")
	ErrInvalidLateFee     = errors.New("invalid_late_fee")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  invoicedomain.Repository
}

type Processor struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  invoicedomain.Repository
}

func New(p Params) *Processor {
	return &Processor{
		db:    p.DB,
		log:   p.Log.Named("overdue.processor"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Process selects PENDING invoices due more than OverdueDays ago and rolls
// each over independently. A failed candidate is logged and skipped; only the
// selection query failing fails the sweep.
func (p *Processor) Process(ctx context.Context, req ProcessRequest) (Result, error) {
	if req.OverdueDays <= 0 {
		return Result{}, ErrInvalidOverdueDays
	}
	if req.LateFee.IsNegative() {
		return Result{}, ErrInvalidLateFee
	}

	now := p.clock.Now()
	cutoff := invoicedomain.DateOnly(now).AddDate(0, 0, -req.OverdueDays)

	candidates, err := p.repo.FindByStatusDueBefore(ctx, invoicedomain.InvoiceStatusPending, cutoff)
	if err != nil {
		p.log.Error("select overdue candidates", zap.Error(err))
		return Result{}, err
	}

	m := obsmetrics.Default()
	m.OverdueCandidates.Add(float64(len(candidates)))

	ids := make([]snowflake.ID, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		id, err := p.rollover(ctx, *candidate, req)
		if err != nil {
			m.OverdueFailures.Inc()
			p.log.Error("rollover invoice",
				zap.String("invoice_id", candidate.ID.String()),
				zap.Error(err),
			)
			continue
		}
		m.OverdueRollovers.Inc()
		ids = append(ids, id)
	}

	p.log.Info("overdue sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("rolled_over", len(ids)),
	)

	return Result{
		ProcessedCount: len(candidates),
		NewInvoiceIDs:  ids,
		Message:        "Overdue invoices processed successfully.",
	}, nil
}

// rollover closes one invoice and inserts its successor inside a single
// transaction; that pair is the unit of atomicity for the sweep.
func (p *Processor) rollover(ctx context.Context, inv invoicedomain.Invoice, req ProcessRequest) (snowflake.ID, error) {
	closed, successor := invoicedomain.Rollover(inv, p.clock.Now(), req.OverdueDays, req.LateFee)
	successor.ID = p.genID.Generate()

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := p.repo.WithTrx(tx)
		if err := repo.Update(ctx, &closed); err != nil {
			return err
		}
		return repo.Insert(ctx, &successor)
	})
	if err != nil {
		return 0, err
	}
	return successor.ID, nil
}

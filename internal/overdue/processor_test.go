package overdue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	invoicedomain "github.com/smallbiznis/ledgerline/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/ledgerline/internal/invoice/repository"
	"github.com/smallbiznis/ledgerline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	repo      invoicedomain.Repository
	node      *snowflake.Node
	processor *Processor
}

func newFixture(t *testing.T, wrap func(invoicedomain.Repository) invoicedomain.Repository) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&invoicedomain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := invoicerepo.Provide(dbConn)
	if wrap != nil {
		repo = wrap(repo)
	}

	return &fixture{
		db:   dbConn,
		repo: repo,
		node: node,
		processor: New(Params{
			DB:    dbConn,
			Log:   zap.NewNop(),
			GenID: node,
			Clock: clock.NewFakeClock(testNow),
			Repo:  repo,
		}),
	}
}

func (f *fixture) seed(t *testing.T, amount int64, dueDaysAgo int, status invoicedomain.InvoiceStatus) invoicedomain.Invoice {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:         f.node.Generate(),
		Amount:     decimal.NewFromInt(amount),
		PaidAmount: decimal.Zero,
		DueDate:    invoicedomain.DateOnly(testNow).AddDate(0, 0, -dueDaysAgo),
		Status:     status,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
	require.NoError(t, f.repo.Insert(context.Background(), &invoice))
	return invoice
}

func TestProcessRollsOverSingleCandidate(t *testing.T) {
	f := newFixture(t, nil)
	original := f.seed(t, 500, 40, invoicedomain.InvoiceStatusPending)

	result, err := f.processor.Process(context.Background(), ProcessRequest{
		OverdueDays: 30,
		LateFee:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ProcessedCount)
	require.Len(t, result.NewInvoiceIDs, 1)
	assert.Equal(t, "Overdue invoices processed successfully.", result.Message)

	closed, err := f.repo.FindByID(context.Background(), original.ID)
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, closed.Status,
		"unpaid original is closed with the preserved disposition polarity")

	successor, err := f.repo.FindByID(context.Background(), result.NewInvoiceIDs[0])
	require.NoError(t, err)
	require.NotNil(t, successor)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, successor.Status)
	assert.True(t, successor.Amount.Equal(decimal.NewFromInt(550)),
		"successor amount %s", successor.Amount)
	assert.Equal(t, invoicedomain.DateOnly(testNow).AddDate(0, 0, 30), successor.DueDate)
	assert.True(t, successor.PaidAmount.IsZero())
}

func TestProcessVoidsFullyPaidCandidate(t *testing.T) {
	f := newFixture(t, nil)
	original := f.seed(t, 500, 40, invoicedomain.InvoiceStatusPending)

	original.PaidAmount = decimal.NewFromInt(500)
	require.NoError(t, f.repo.Update(context.Background(), &original))

	result, err := f.processor.Process(context.Background(), ProcessRequest{
		OverdueDays: 30,
		LateFee:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	require.Len(t, result.NewInvoiceIDs, 1)

	closed, err := f.repo.FindByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusVoid, closed.Status)
}

func TestProcessSelectionWindow(t *testing.T) {
	f := newFixture(t, nil)
	overdue := f.seed(t, 500, 40, invoicedomain.InvoiceStatusPending)
	f.seed(t, 500, 10, invoicedomain.InvoiceStatusPending) // inside the window
	f.seed(t, 500, 40, invoicedomain.InvoiceStatusPaid)    // already closed
	f.seed(t, 500, 40, invoicedomain.InvoiceStatusVoid)

	result, err := f.processor.Process(context.Background(), ProcessRequest{
		OverdueDays: 30,
		LateFee:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ProcessedCount)
	require.Len(t, result.NewInvoiceIDs, 1)

	closed, err := f.repo.FindByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.True(t, closed.Status.Closed())
}

type flakyRepo struct {
	invoicedomain.Repository
	failAmount decimal.Decimal
}

func (r *flakyRepo) WithTrx(tx *gorm.DB) invoicedomain.Repository {
	return &flakyRepo{Repository: r.Repository.WithTrx(tx), failAmount: r.failAmount}
}

func (r *flakyRepo) Insert(ctx context.Context, invoice *invoicedomain.Invoice) error {
	if invoice.Amount.Equal(r.failAmount) {
		return errors.New("write failed")
	}
	return r.Repository.Insert(ctx, invoice)
}

func TestProcessToleratesPerCandidateFailure(t *testing.T) {
	// successor of the 600 invoice lands on 650, which the store refuses
	f := newFixture(t, func(repo invoicedomain.Repository) invoicedomain.Repository {
		return &flakyRepo{Repository: repo, failAmount: decimal.NewFromInt(650)}
	})

	f.seed(t, 500, 40, invoicedomain.InvoiceStatusPending)
	failing := f.seed(t, 600, 40, invoicedomain.InvoiceStatusPending)
	f.seed(t, 700, 40, invoicedomain.InvoiceStatusPending)

	result, err := f.processor.Process(context.Background(), ProcessRequest{
		OverdueDays: 30,
		LateFee:     decimal.NewFromInt(50),
	})
	require.NoError(t, err, "batch succeeds despite per-item failure")

	assert.Equal(t, 3, result.ProcessedCount)
	assert.Len(t, result.NewInvoiceIDs, 2)

	// the failed candidate's transaction rolled back: it stays open
	stored, err := f.repo.FindByID(context.Background(), failing.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, stored.Status)
}

func TestProcessValidatesRequest(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.processor.Process(context.Background(), ProcessRequest{OverdueDays: 0, LateFee: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidOverdueDays)

	_, err = f.processor.Process(context.Background(), ProcessRequest{OverdueDays: 30, LateFee: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, ErrInvalidLateFee)
}

func TestProcessEmptySweep(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.Process(context.Background(), ProcessRequest{
		OverdueDays: 30,
		LateFee:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	assert.Empty(t, result.NewInvoiceIDs)
}

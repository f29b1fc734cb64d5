package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/invoice/domain"
	"github.com/smallbiznis/ledgerline/pkg/db"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (domain.Repository, *snowflake.Node, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return Provide(dbConn), node, dbConn
}

func seed(t *testing.T, repo domain.Repository, node *snowflake.Node, status domain.InvoiceStatus, due time.Time) domain.Invoice {
	t.Helper()
	invoice := domain.Invoice{
		ID:         node.Generate(),
		Amount:     decimal.NewFromInt(100),
		PaidAmount: decimal.Zero,
		DueDate:    due,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(context.Background(), &invoice))
	return invoice
}

func TestFindByIDMissing(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	item, err := repo.FindByID(context.Background(), snowflake.ID(99))
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestFindByIDZeroStaysFiltered(t *testing.T) {
	repo, node, _ := newTestRepo(t)
	seed(t, repo, node, domain.InvoiceStatusPending, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	// gorm drops zero struct fields from conditions; id 0 must still miss
	// instead of matching the first row.
	item, err := repo.FindByID(context.Background(), snowflake.ID(0))
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestInsertAndRoundTrip(t *testing.T) {
	repo, node, _ := newTestRepo(t)
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	created := seed(t, repo, node, domain.InvoiceStatusPending, due)

	item, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.InvoiceStatusPending, item.Status)
}

func TestFindByStatusDueBefore(t *testing.T) {
	repo, node, _ := newTestRepo(t)
	cutoff := time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC)

	overdue := seed(t, repo, node, domain.InvoiceStatusPending, cutoff.AddDate(0, 0, -10))
	seed(t, repo, node, domain.InvoiceStatusPending, cutoff.AddDate(0, 0, 5))
	seed(t, repo, node, domain.InvoiceStatusPaid, cutoff.AddDate(0, 0, -10))
	seed(t, repo, node, domain.InvoiceStatusPending, cutoff) // exactly at cutoff: excluded

	items, err := repo.FindByStatusDueBefore(context.Background(), domain.InvoiceStatusPending, cutoff)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, overdue.ID, items[0].ID)
}

func TestListPagination(t *testing.T) {
	repo, node, _ := newTestRepo(t)
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seed(t, repo, node, domain.InvoiceStatusPending, due)
	}

	items, err := repo.List(context.Background(), domain.ListInvoiceFilter{}, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	// one extra row is fetched so the caller can detect a further page
	assert.Len(t, items, 3)

	trimmed, info := pagination.BuildPageInfo(items, 2)
	assert.Len(t, trimmed, 2)
	assert.True(t, info.HasMore)
}

func TestListDueRangeFilter(t *testing.T) {
	repo, node, _ := newTestRepo(t)

	inRange := seed(t, repo, node, domain.InvoiceStatusPending, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	seed(t, repo, node, domain.InvoiceStatusPending, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	items, err := repo.List(context.Background(), domain.ListInvoiceFilter{DueFrom: &from, DueTo: &to}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inRange.ID, items[0].ID)
}

func TestUpdatePersistsMutation(t *testing.T) {
	repo, node, _ := newTestRepo(t)
	invoice := seed(t, repo, node, domain.InvoiceStatusPending, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	invoice.PaidAmount = decimal.NewFromInt(40)
	invoice.Status = domain.InvoiceStatusPaid
	require.NoError(t, repo.Update(context.Background(), &invoice))

	stored, err := repo.FindByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, domain.InvoiceStatusPaid, stored.Status)
}

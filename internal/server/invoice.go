package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/ledgerline/internal/invoice/domain"
	"github.com/smallbiznis/ledgerline/internal/overdue"
	"github.com/smallbiznis/ledgerline/pkg/db/pagination"
)

const dateLayout = "2006-01-02"

type createInvoiceRequest struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      string          `json:"due_date"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.DueDate))
	if err != nil {
		AbortWithError(c, newValidationError("due_date", "invalid_due_date", "due_date must be YYYY-MM-DD"))
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Amount:       req.Amount,
		DueDate:      dueDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": invoice.ID.String()})
}

type listInvoicesRequest struct {
	pagination.Pagination
	Status  string `form:"status"`
	DueFrom string `form:"due_from"`
	DueTo   string `form:"due_to"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req listInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listReq := invoicedomain.ListInvoiceRequest{Pagination: req.Pagination}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := invoicedomain.InvoiceStatus(strings.ToUpper(raw))
		switch status {
		case invoicedomain.InvoiceStatusPending, invoicedomain.InvoiceStatusPaid, invoicedomain.InvoiceStatusVoid:
			listReq.Status = &status
		default:
			AbortWithError(c, newValidationError("status", "invalid_status", "unknown status"))
			return
		}
	}
	if raw := strings.TrimSpace(req.DueFrom); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			AbortWithError(c, newValidationError("due_from", "invalid_due_from", "due_from must be YYYY-MM-DD"))
			return
		}
		listReq.DueFrom = &from
	}
	if raw := strings.TrimSpace(req.DueTo); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			AbortWithError(c, newValidationError("due_to", "invalid_due_to", "due_to must be YYYY-MM-DD"))
			return
		}
		listReq.DueTo = &to
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     resp.Invoices,
		"has_more": resp.HasMore,
	})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	item, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) MakePayment(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.invoiceSvc.ApplyPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type processOverdueRequest struct {
	OverdueDays int             `json:"overdue_days"`
	LateFee     decimal.Decimal `json:"late_fee"`
}

func (s *Server) ProcessOverdue(c *gin.Context) {
	var req processOverdueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.overdueProc.Process(c.Request.Context(), overdue.ProcessRequest{
		OverdueDays: req.OverdueDays,
		LateFee:     req.LateFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

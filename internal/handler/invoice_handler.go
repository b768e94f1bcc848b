package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/response"
)

type invoiceService interface {
	GenerateMonthly(ctx context.Context, actor string) (*models.InvoiceGenerationResult, error)
	GenerateSingle(ctx context.Context, req dto.GenerateSingleInvoiceRequest, actor string) (*models.Invoice, bool, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest, actor string) (*models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, query dto.ListInvoicesQuery) ([]models.Invoice, error)
}

type invoiceRenderer interface {
	InvoicePDF(ctx context.Context, invoiceID, actor string) (*dto.ExportLink, error)
}

// InvoiceHandler exposes billing endpoints.
type InvoiceHandler struct {
	invoices invoiceService
	renderer invoiceRenderer
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(invoices invoiceService, renderer invoiceRenderer) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, renderer: renderer}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Security BearerAuth
// @Produce json
// @Param student_id query int false "Student numeric ID"
// @Param status query string false "PENDING, PAID or OVERDUE"
// @Param year query int false "Year"
// @Param month query int false "Month"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var query dto.ListInvoicesQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}
	invoices, err := h.invoices.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, nil)
}

// Get godoc
// @Summary Get invoice
// @Tags Invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// GenerateMonthly godoc
// @Summary Generate this month's invoices for every student
// @Description Students without a known schedule are skipped and counted.
// @Tags Invoices
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /invoices/generate [post]
func (h *InvoiceHandler) GenerateMonthly(c *gin.Context) {
	result, err := h.invoices.GenerateMonthly(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateSingle godoc
// @Summary Generate this month's invoice for one student
// @Description Returns the existing invoice when one was already generated this month.
// @Tags Invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSingleInvoiceRequest true "Student"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /invoices/generate/single [post]
func (h *InvoiceHandler) GenerateSingle(c *gin.Context) {
	var req dto.GenerateSingleInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	invoice, created, err := h.invoices.GenerateSingle(c.Request.Context(), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, invoice)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// GenerateSinglePDF godoc
// @Summary Export this month's invoice for one student
// @Description Finds or creates the current-month invoice and returns a signed PDF download link.
// @Tags Invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSingleInvoiceRequest true "Student"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /invoices/generate/single/pdf [post]
func (h *InvoiceHandler) GenerateSinglePDF(c *gin.Context) {
	var req dto.GenerateSingleInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()
	invoice, _, err := h.invoices.GenerateSingle(ctx, req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.renderer.InvoicePDF(ctx, invoice.ID, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// UpdateStatus godoc
// @Summary Change invoice status
// @Tags Invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body dto.UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateInvoiceStatusRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	invoice, err := h.invoices.UpdateStatus(c.Request.Context(), c.Param("id"), req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// PDF godoc
// @Summary Render invoice PDF
// @Description Returns a signed, expiring download link.
// @Tags Invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 201 {object} response.Envelope
// @Router /invoices/{id}/pdf [post]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	link, err := h.renderer.InvoicePDF(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

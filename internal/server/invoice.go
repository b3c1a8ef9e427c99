package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	"github.com/lancekit/lancekit/pkg/db/pagination"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientID      string `form:"client_id"`
		ProjectID     string `form:"project_id"`
		Status        string `form:"status"`
		SortField     string `form:"sort_field"`
		SortDirection string `form:"sort_direction"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Pagination:    query.Pagination,
		ClientID:      strings.TrimSpace(query.ClientID),
		ProjectID:     strings.TrimSpace(query.ProjectID),
		Status:        strings.TrimSpace(query.Status),
		SortField:     strings.TrimSpace(query.SortField),
		SortDirection: strings.TrimSpace(query.SortDirection),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), invoicedomain.UpdateInvoiceRequest{
		ID:                   strings.TrimSpace(c.Param("id")),
		CreateInvoiceRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

func (s *Server) RecordInvoicePayment(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.RecordPayment(c.Request.Context(), invoicedomain.RecordPaymentRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Amount: req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	ctx := c.Request.Context()

	invoice, err := s.invoiceSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	client, err := s.clientSvc.GetByID(ctx, invoice.ClientID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.RenderInvoice(ctx, invoice, client)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.InvoiceNumber+".pdf"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}

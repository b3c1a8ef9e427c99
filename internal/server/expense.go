package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	"github.com/lancekit/lancekit/pkg/db/pagination"
)

func (s *Server) CreateExpense(c *gin.Context) {
	var req expensedomain.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ProjectID string `form:"project_id"`
		Category  string `form:"category"`
		DateFrom  string `form:"date_from"`
		DateTo    string `form:"date_to"`
		Billable  string `form:"billable"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	billable, err := parseOptionalBool(query.Billable)
	if err != nil {
		AbortWithError(c, newValidationError("billable", "invalid_billable", "invalid billable"))
		return
	}

	category := strings.TrimSpace(query.Category)
	if category == "all" {
		category = ""
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		Pagination: query.Pagination,
		ProjectID:  strings.TrimSpace(query.ProjectID),
		Category:   category,
		DateFrom:   strings.TrimSpace(query.DateFrom),
		DateTo:     strings.TrimSpace(query.DateTo),
		Billable:   billable,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	resp, err := s.expenseSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	var req expensedomain.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.Update(c.Request.Context(), expensedomain.UpdateExpenseRequest{
		ID:                   strings.TrimSpace(c.Param("id")),
		CreateExpenseRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.expenseSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	"github.com/lancekit/lancekit/pkg/db/pagination"
)

func (s *Server) CreateTimeEntry(c *gin.Context) {
	var req timeentrydomain.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.timeEntrySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTimeEntries(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ProjectID string `form:"project_id"`
		DateFrom  string `form:"date_from"`
		DateTo    string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.timeEntrySvc.List(c.Request.Context(), timeentrydomain.ListTimeEntryRequest{
		Pagination: query.Pagination,
		ProjectID:  strings.TrimSpace(query.ProjectID),
		DateFrom:   strings.TrimSpace(query.DateFrom),
		DateTo:     strings.TrimSpace(query.DateTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTimeEntryByID(c *gin.Context) {
	resp, err := s.timeEntrySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTimeEntry(c *gin.Context) {
	var req timeentrydomain.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.timeEntrySvc.Update(c.Request.Context(), timeentrydomain.UpdateTimeEntryRequest{
		ID:                     strings.TrimSpace(c.Param("id")),
		CreateTimeEntryRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTimeEntry(c *gin.Context) {
	if err := s.timeEntrySvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

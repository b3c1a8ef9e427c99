package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/pkg/db/pagination"
)

func (s *Server) CreateProject(c *gin.Context) {
	var req projectdomain.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProjects(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search        string `form:"search"`
		Status        string `form:"status"`
		ClientID      string `form:"client_id"`
		SortField     string `form:"sort_field"`
		SortDirection string `form:"sort_direction"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.List(c.Request.Context(), projectdomain.ListProjectRequest{
		Pagination:    query.Pagination,
		Search:        strings.TrimSpace(query.Search),
		Status:        strings.TrimSpace(query.Status),
		ClientID:      strings.TrimSpace(query.ClientID),
		SortField:     strings.TrimSpace(query.SortField),
		SortDirection: strings.TrimSpace(query.SortDirection),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProjectByID(c *gin.Context) {
	resp, err := s.projectSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProject(c *gin.Context) {
	var req projectdomain.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Update(c.Request.Context(), projectdomain.UpdateProjectRequest{
		ID:                   strings.TrimSpace(c.Param("id")),
		CreateProjectRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProject(c *gin.Context) {
	if err := s.projectSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

func (s *Server) GetProjectSummary(c *gin.Context) {
	resp, err := s.projectSvc.Summarize(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

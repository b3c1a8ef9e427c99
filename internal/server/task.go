package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/lancekit/lancekit/internal/task/domain"
	"github.com/lancekit/lancekit/pkg/db/pagination"
)

func (s *Server) CreateTask(c *gin.Context) {
	var req taskdomain.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTasks(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ProjectID     string `form:"project_id"`
		Status        string `form:"status"`
		Priority      string `form:"priority"`
		SortField     string `form:"sort_field"`
		SortDirection string `form:"sort_direction"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.List(c.Request.Context(), taskdomain.ListTaskRequest{
		Pagination:    query.Pagination,
		ProjectID:     strings.TrimSpace(query.ProjectID),
		Status:        strings.TrimSpace(query.Status),
		Priority:      strings.TrimSpace(query.Priority),
		SortField:     strings.TrimSpace(query.SortField),
		SortDirection: strings.TrimSpace(query.SortDirection),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTaskByID(c *gin.Context) {
	resp, err := s.taskSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTask(c *gin.Context) {
	var req taskdomain.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.Update(c.Request.Context(), taskdomain.UpdateTaskRequest{
		ID:                strings.TrimSpace(c.Param("id")),
		CreateTaskRequest: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetTaskStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.SetStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTask(c *gin.Context) {
	if err := s.taskSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) DeviceInsights(c *gin.Context) {
	view, err := s.insightsSvc.DeviceInsights(c.Request.Context(), userIDFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) DashboardStats(c *gin.Context) {
	view, err := s.insightsSvc.DashboardStats(c.Request.Context(), userIDFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

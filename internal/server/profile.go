package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/septivank/energy-insights/internal/validator"
)

func (s *Server) GetProfile(c *gin.Context) {
	profile, err := s.profileSvc.Get(c.Request.Context(), userIDFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newProfileResponse(profile)})
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req validator.HouseholdInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	profile, err := s.profileSvc.Update(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newProfileResponse(profile)})
}

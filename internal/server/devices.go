package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/septivank/energy-insights/internal/validator"
)

func (s *Server) DeviceCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.deviceSvc.Categories()})
}

func (s *Server) CreateDevice(c *gin.Context) {
	var req validator.DeviceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	device, err := s.deviceSvc.Create(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": newDeviceResponse(device)})
}

func (s *Server) ListDevices(c *gin.Context) {
	devices, err := s.deviceSvc.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]deviceResponse, 0, len(devices))
	for i := range devices {
		resp = append(resp, newDeviceResponse(&devices[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	device, err := s.deviceSvc.Get(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newDeviceResponse(device)})
}

func (s *Server) UpdateDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req validator.DeviceUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	device, err := s.deviceSvc.Update(c.Request.Context(), userIDFrom(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newDeviceResponse(device)})
}

// DeleteDevice deactivates the device; it stays in storage.
func (s *Server) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.deviceSvc.Delete(c.Request.Context(), userIDFrom(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "deleted": true}})
}

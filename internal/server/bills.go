package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListBills(c *gin.Context) {
	bills, err := s.billSvc.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bills})
}

func (s *Server) GetBill(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	bill, err := s.billSvc.Get(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newBillResponse(bill)})
}

func (s *Server) BillBreakdown(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	breakdown, err := s.billSvc.Breakdown(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": breakdown})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"labstock-system/internal/services/inventory/handler"
)

type InventoryHTTPHandler struct {
	svc *handler.InventoryHandler
	log *logrus.Logger
}

func NewInventoryHTTPHandler(svc *handler.InventoryHandler, logger *logrus.Logger) *InventoryHTTPHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &InventoryHTTPHandler{
		svc: svc,
		log: logger,
	}
}

// Helper functions
func (s *InventoryHTTPHandler) error(c *gin.Context, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("request failed")
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// StatusFromError maps the domain error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	var validation *handler.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	var notFound *handler.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var insufficient *handler.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func parseIDParam(c *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}

// Movement endpoints

func (s *InventoryHTTPHandler) RecordInbound(c *gin.Context) {
	var req handler.InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.RecordInbound(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) RecordOutbound(c *gin.Context) {
	var req handler.OutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.RecordOutbound(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ListMovements(c *gin.Context) {
	movements, err := s.svc.ListMovements(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (s *InventoryHTTPHandler) MonthlyStats(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "year must be a number"})
			return
		}
		year = parsed
	}

	stats, err := s.svc.MonthlyStats(c.Request.Context(), year)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Reservation endpoints

func (s *InventoryHTTPHandler) ReserveStock(c *gin.Context) {
	var req handler.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.ReserveStock(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ReleaseStock(c *gin.Context) {
	var req handler.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.ReleaseStock(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ListReservations(c *gin.Context) {
	reservations, err := s.svc.ListReservations(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldverify/internal/service"
)

// DistanceHandler handles HTTP requests for the distance oracle.
type DistanceHandler struct {
	distanceService *service.DistanceService
}

// NewDistanceHandler creates a new DistanceHandler.
func NewDistanceHandler(distanceService *service.DistanceService) *DistanceHandler {
	return &DistanceHandler{distanceService: distanceService}
}

// DistanceRequest is the HTTP request body for a distance check.
type DistanceRequest struct {
	TechnicianLat float64 `json:"technician_lat"`
	TechnicianLng float64 `json:"technician_lng"`
	CustomerLat   float64 `json:"customer_lat"`
	CustomerLng   float64 `json:"customer_lng"`
	ZoneID        string  `json:"zone_id"`
	TechnicianID  string  `json:"technician_id"`
}

// DistanceResponse is the HTTP response for a distance check.
type DistanceResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	ThresholdMeters float64 `json:"distance_threshold_meters"`
	WithinRange     bool    `json:"within_range"`
}

// CheckDistance handles POST /v1/distance
func (h *DistanceHandler) CheckDistance(c *gin.Context) {
	var req DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.distanceService.Check(c.Request.Context(), service.CheckRequest{
		TechnicianLat: req.TechnicianLat,
		TechnicianLng: req.TechnicianLng,
		CustomerLat:   req.CustomerLat,
		CustomerLng:   req.CustomerLng,
		ZoneID:        req.ZoneID,
		TechnicianID:  req.TechnicianID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DistanceResponse{
		DistanceMeters:  result.DistanceMeters,
		ThresholdMeters: result.ThresholdMeters,
		WithinRange:     result.WithinRange,
	})
}

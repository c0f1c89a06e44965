package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldverify/internal/domain"
	"fieldverify/internal/verify"
)

// DistanceClient talks to the backend distance oracle.
type DistanceClient struct {
	baseURL    string
	httpClient *http.Client

	zoneID       string
	technicianID string
}

// NewDistanceClient creates a DistanceClient for the given base URL.
func NewDistanceClient(baseURL string) *DistanceClient {
	return &DistanceClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBookingContext attributes subsequent checks to the booking's service
// zone (so the server applies the zone threshold) and to the technician
// (so an in-range position is recorded for audit). Both are optional.
func (c *DistanceClient) SetBookingContext(zoneID, technicianID string) {
	c.zoneID = zoneID
	c.technicianID = technicianID
}

type distanceRequest struct {
	TechnicianLat float64 `json:"technician_lat"`
	TechnicianLng float64 `json:"technician_lng"`
	CustomerLat   float64 `json:"customer_lat"`
	CustomerLng   float64 `json:"customer_lng"`
	ZoneID        string  `json:"zone_id,omitempty"`
	TechnicianID  string  `json:"technician_id,omitempty"`
}

type distanceResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	ThresholdMeters float64 `json:"distance_threshold_meters"`
}

// CheckDistance submits both coordinate pairs and returns the computed
// distance together with the server-authoritative threshold.
func (c *DistanceClient) CheckDistance(ctx context.Context, technician, customer domain.Coordinates) (verify.DistanceResult, error) {
	body, err := json.Marshal(distanceRequest{
		TechnicianLat: technician.Lat,
		TechnicianLng: technician.Lng,
		CustomerLat:   customer.Lat,
		CustomerLng:   customer.Lng,
		ZoneID:        c.zoneID,
		TechnicianID:  c.technicianID,
	})
	if err != nil {
		return verify.DistanceResult{}, fmt.Errorf("failed to marshal distance request: %w", err)
	}

	url := c.baseURL + "/v1/distance"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return verify.DistanceResult{}, fmt.Errorf("failed to create distance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return verify.DistanceResult{}, fmt.Errorf("failed to execute distance request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return verify.DistanceResult{}, fmt.Errorf("distance check failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded distanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return verify.DistanceResult{}, fmt.Errorf("failed to decode distance response: %w", err)
	}

	return verify.DistanceResult{
		DistanceMeters:  decoded.DistanceMeters,
		ThresholdMeters: decoded.ThresholdMeters,
	}, nil
}

// Ensure DistanceClient satisfies the verifier's oracle interface.
var _ verify.DistanceChecker = (*DistanceClient)(nil)

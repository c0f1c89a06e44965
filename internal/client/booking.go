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
)

// BookingClient reads booking details from the backend.
type BookingClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBookingClient creates a BookingClient for the given base URL.
func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type bookingResponse struct {
	BookingID    string  `json:"booking_id"`
	CustomerID   string  `json:"customer_id"`
	TechnicianID string  `json:"technician_id"`
	Status       string  `json:"status"`
	CustomerLat  float64 `json:"customer_lat"`
	CustomerLng  float64 `json:"customer_lng"`
	AddressLine  string  `json:"address_line"`
	ZoneID       string  `json:"zone_id"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	CustomerID   string  `json:"customer_id"`
	TechnicianID string  `json:"technician_id"`
	CustomerLat  float64 `json:"customer_lat"`
	CustomerLng  float64 `json:"customer_lng"`
	AddressLine  string  `json:"address_line"`
	ZoneID       string  `json:"zone_id"`
}

// CreateBooking registers a new booking and returns it.
func (c *BookingClient) CreateBooking(ctx context.Context, reqBody CreateBookingRequest) (*domain.Booking, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	url := c.baseURL + "/v1/bookings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute booking request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("booking creation failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode booking response: %w", err)
	}

	return &domain.Booking{
		ID:           decoded.BookingID,
		CustomerID:   decoded.CustomerID,
		TechnicianID: decoded.TechnicianID,
		Status:       domain.BookingStatus(decoded.Status),
		CustomerLat:  decoded.CustomerLat,
		CustomerLng:  decoded.CustomerLng,
		AddressLine:  decoded.AddressLine,
		ZoneID:       decoded.ZoneID,
	}, nil
}

// GetBooking fetches a booking by ID.
func (c *BookingClient) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	url := fmt.Sprintf("%s/v1/bookings/%s", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute booking request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("booking fetch failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode booking response: %w", err)
	}

	return &domain.Booking{
		ID:           decoded.BookingID,
		CustomerID:   decoded.CustomerID,
		TechnicianID: decoded.TechnicianID,
		Status:       domain.BookingStatus(decoded.Status),
		CustomerLat:  decoded.CustomerLat,
		CustomerLng:  decoded.CustomerLng,
		AddressLine:  decoded.AddressLine,
		ZoneID:       decoded.ZoneID,
	}, nil
}

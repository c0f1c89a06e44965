package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldverify/internal/domain"
	"fieldverify/internal/verify"
)

// OtpClient talks to the backend OTP dispatch and verification endpoints.
type OtpClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOtpClient creates an OtpClient for the given base URL.
func NewOtpClient(baseURL string) *OtpClient {
	return &OtpClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type otpSendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type otpVerifyResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	BookingState string `json:"booking_state"`
	Error        string `json:"error"`
}

// SendOtp asks the backend to dispatch a start-work OTP to the customer.
func (c *OtpClient) SendOtp(ctx context.Context, bookingID string) (string, error) {
	url := fmt.Sprintf("%s/v1/bookings/%s/otp/send", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create otp send request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute otp send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("otp send failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded otpSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode otp send response: %w", err)
	}
	if !decoded.Success {
		return "", fmt.Errorf("otp send rejected: %s", decoded.Message)
	}

	return decoded.Message, nil
}

// VerifyOtp submits the entered code and the presence image as a single
// multipart request. A 4xx answer is a rejection (wrong or expired code),
// reported through the result rather than as a transport error.
func (c *OtpClient) VerifyOtp(ctx context.Context, bookingID, code string, image *domain.PresenceImage) (verify.VerifyResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("otp", code); err != nil {
		return verify.VerifyResult{}, fmt.Errorf("failed to write otp field: %w", err)
	}
	if err := writeSelfiePart(writer, image); err != nil {
		return verify.VerifyResult{}, err
	}
	if err := writer.Close(); err != nil {
		return verify.VerifyResult{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/v1/bookings/%s/otp/verify", c.baseURL, bookingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return verify.VerifyResult{}, fmt.Errorf("failed to create otp verify request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return verify.VerifyResult{}, fmt.Errorf("failed to execute otp verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		payload, _ := io.ReadAll(resp.Body)
		return verify.VerifyResult{}, fmt.Errorf("otp verify failed with status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded otpVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return verify.VerifyResult{}, fmt.Errorf("failed to decode otp verify response: %w", err)
	}
	if !decoded.Success && decoded.Message == "" {
		decoded.Message = decoded.Error
	}

	return verify.VerifyResult{
		Success:      decoded.Success,
		Message:      decoded.Message,
		BookingState: domain.BookingStatus(decoded.BookingState),
	}, nil
}

// writeSelfiePart streams the captured image file into the multipart body
// with its real content type instead of the default octet-stream.
func writeSelfiePart(writer *multipart.Writer, image *domain.PresenceImage) error {
	file, err := os.Open(image.LocalURI)
	if err != nil {
		return fmt.Errorf("failed to open presence image: %w", err)
	}
	defer file.Close()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="selfie"; filename="%s"`,
		escapeQuotes(filepath.Base(image.LocalURI))))
	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create selfie part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to write selfie part: %w", err)
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Ensure OtpClient satisfies the challenge component's backend interface.
var _ verify.OtpBackend = (*OtpClient)(nil)

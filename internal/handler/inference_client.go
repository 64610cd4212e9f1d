package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/matsyaark/api/internal/dto"
	middlewarepkg "github.com/matsyaark/api/internal/middleware"
)

const detectionsPath = "/detections"

// DetectionSource returns the most recent detections seen by the inference service.
type DetectionSource interface {
	LatestDetections(ctx context.Context, requestID string) (dto.DetectionsResponse, error)
}

// InferenceClient reads JSON from the fish-detection inference service.
type InferenceClient struct {
	client  *http.Client
	baseURL string
}

// NewInferenceClient builds an inference client. When client is nil it tries an
// ID token client for Cloud Run service-to-service calls and falls back to a
// plain client when no credentials are available.
func NewInferenceClient(client *http.Client, baseURL string, timeout time.Duration) *InferenceClient {
	if baseURL == "" {
		panic("inference base URL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: timeout}
		} else {
			idc.Timeout = timeout
			client = idc
		}
	}
	return &InferenceClient{client: client, baseURL: baseURL}
}

// GetJSON fetches path and decodes the body into out.
func (c *InferenceClient) GetJSON(ctx context.Context, path, requestID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(middlewarepkg.HeaderRequestID, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("inference service error: %s", extractUpstreamError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode inference response: %w", err)
	}
	return nil
}

// LatestDetections fetches the detections endpoint.
func (c *InferenceClient) LatestDetections(ctx context.Context, requestID string) (dto.DetectionsResponse, error) {
	var resp dto.DetectionsResponse
	if err := c.GetJSON(ctx, detectionsPath, requestID, &resp); err != nil {
		return dto.DetectionsResponse{}, err
	}
	return resp, nil
}

func extractUpstreamError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(data) == 0 {
		return "inference service returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}

var _ DetectionSource = (*InferenceClient)(nil)

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsyaark/api/internal/dto"
)

func TestInferenceClient_LatestDetections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detections" || r.Header.Get("X-Request-ID") != "req-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detections": []map[string]any{
				{"class_name": "tuna", "confidence": 0.91, "box": []int{10, 20, 110, 220}},
			},
		})
	}))
	defer server.Close()

	client := NewInferenceClient(server.Client(), server.URL+"/", time.Second)
	resp, err := client.LatestDetections(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, resp.Detections, 1)
	assert.Equal(t, dto.Detection{ClassName: "tuna", Confidence: 0.91, Box: [4]int{10, 20, 110, 220}}, resp.Detections[0])
}

func TestInferenceClient_UpstreamError(t *testing.T) {
	tests := map[string]struct {
		body string
		want string
	}{
		"json error": {`{"error":"camera offline"}`, "inference service error: camera offline"},
		"plain text": {"bad gateway\n", "inference service error: bad gateway"},
		"empty body": {"", "inference service error: inference service returned an error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewInferenceClient(server.Client(), server.URL, time.Second)
			_, err := client.LatestDetections(context.Background(), "")
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestInferenceClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewInferenceClient(server.Client(), server.URL, time.Second)
	_, err := client.LatestDetections(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode inference response")
}

func TestNewInferenceClient_PanicsWithoutBaseURL(t *testing.T) {
	assert.Panics(t, func() { NewInferenceClient(http.DefaultClient, "", time.Second) })
}

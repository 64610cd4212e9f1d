package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/matsyaark/api/internal/dto"
	middlewarepkg "github.com/matsyaark/api/internal/middleware"
)

const msgInferenceUnavailable = "fish inference service unavailable"

// DetectionsHandler relays the inference service's latest detections.
type DetectionsHandler struct {
	source DetectionSource
	logger *zap.Logger
}

// NewDetectionsHandler constructs a detections handler backed by an HTTP client.
// If client is nil an ID token client is attempted.
func NewDetectionsHandler(client *http.Client, baseURL string, timeout time.Duration, logger *zap.Logger) *DetectionsHandler {
	return NewDetectionsHandlerWithSource(NewInferenceClient(client, baseURL, timeout), logger)
}

// NewDetectionsHandlerWithSource allows injecting a custom detection source.
func NewDetectionsHandlerWithSource(source DetectionSource, logger *zap.Logger) *DetectionsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetectionsHandler{source: source, logger: logger}
}

// Latest handles GET /api/fish/detections requests.
func (h *DetectionsHandler) Latest(c echo.Context) error {
	rid := middlewarepkg.RequestIDFromContext(c)
	resp, err := h.source.LatestDetections(c.Request().Context(), rid)
	if err != nil {
		h.logger.Warn("detections relay failed", zap.String("request_id", rid), zap.Error(err))
		return Error(c, http.StatusBadGateway, msgInferenceUnavailable)
	}
	if resp.Detections == nil {
		resp.Detections = []dto.Detection{}
	}
	return c.JSON(http.StatusOK, resp)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/matsyaark/api/internal/dto"
	"github.com/matsyaark/api/internal/metrics"
	middlewarepkg "github.com/matsyaark/api/internal/middleware"
	"github.com/matsyaark/api/internal/upload"
	"github.com/matsyaark/api/internal/vision"
)

const (
	imageField = "image"

	msgImageRequired = "image file is required"
	msgNotAnImage    = "uploaded file must be an image"
	msgUploadFailed  = "failed to process upload"
	msgVisionFailed  = "Gemini API failed"
)

// VisionHandler proxies uploaded coral photos to the vision model.
type VisionHandler struct {
	describer vision.Describer
	uploadDir string
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewVisionHandler wires a handler that spools uploads into uploadDir.
// A zero timeout leaves the call bounded only by the request context.
func NewVisionHandler(describer vision.Describer, uploadDir string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *VisionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisionHandler{
		describer: describer,
		uploadDir: uploadDir,
		timeout:   timeout,
		logger:    logger,
		metrics:   m,
	}
}

// Describe handles POST /api/gemini/gemini requests.
func (h *VisionHandler) Describe(c echo.Context) error {
	rid := zap.String("request_id", middlewarepkg.RequestIDFromContext(c))

	fileHeader, err := c.FormFile(imageField)
	if err != nil {
		h.metrics.ObserveVision(metrics.OutcomeInvalid)
		return Error(c, http.StatusBadRequest, msgImageRequired)
	}

	tmp, err := upload.Spool(fileHeader, h.uploadDir)
	if err != nil {
		h.logger.Error("spooling upload failed", rid, zap.Error(err))
		h.metrics.ObserveVision(metrics.OutcomeError)
		return Error(c, http.StatusInternalServerError, msgUploadFailed)
	}
	defer func() {
		if err := tmp.Release(); err != nil {
			h.logger.Warn("removing upload failed", rid, zap.String("path", tmp.Path), zap.Error(err))
		}
	}()

	if !tmp.IsImage() {
		h.metrics.ObserveVision(metrics.OutcomeInvalid)
		return Error(c, http.StatusBadRequest, msgNotAnImage)
	}

	image, err := tmp.ReadAll()
	if err != nil {
		h.logger.Error("reading upload failed", rid, zap.Error(err))
		h.metrics.ObserveVision(metrics.OutcomeError)
		return Error(c, http.StatusInternalServerError, msgUploadFailed)
	}

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.describer.DescribeCoral(ctx, image, tmp.ContentType)
	if err != nil {
		h.logger.Error("vision model call failed", rid,
			zap.String("filename", tmp.Filename),
			zap.Int64("size", tmp.Size),
			zap.Error(err))
		h.metrics.ObserveVision(metrics.OutcomeError)
		return Error(c, http.StatusInternalServerError, msgVisionFailed)
	}

	if wellFormed(result) {
		h.metrics.ObserveVision(metrics.OutcomeSuccess)
	} else {
		h.logger.Warn("vision model reply is not the expected JSON", rid, zap.Int("length", len(result)))
		h.metrics.ObserveVision(metrics.OutcomeMalformedReply)
	}

	return c.JSON(http.StatusOK, dto.VisionResponse{Result: result})
}

// wellFormed reports whether text decodes as a coral insight document.
func wellFormed(text string) bool {
	var insight dto.CoralInsight
	return json.Unmarshal([]byte(text), &insight) == nil
}

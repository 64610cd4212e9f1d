package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/matsyaark/api/internal/dto"
	"github.com/matsyaark/api/internal/metrics"
	middlewarepkg "github.com/matsyaark/api/internal/middleware"
	"github.com/matsyaark/api/internal/repository"
	"github.com/matsyaark/api/internal/service"
)

const (
	msgContactReceived = "Message received successfully! Thank you."
	msgContactFailed   = "An unexpected error occurred on the server."
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	contacts *service.ContactService
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewContactHandler wires a handler backed by the contact service.
func NewContactHandler(contacts *service.ContactService, logger *zap.Logger, m *metrics.Metrics) *ContactHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{contacts: contacts, logger: logger, metrics: m}
}

// Submit handles POST /api/posts/contact requests.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.ObserveContact(metrics.OutcomeInvalid)
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	msg, err := h.contacts.Submit(c.Request().Context(), req)
	if err != nil {
		var fieldErrs service.ValidationErrors
		if errors.As(err, &fieldErrs) {
			h.metrics.ObserveContact(metrics.OutcomeInvalid)
			return ValidationFailed(c, fieldErrs)
		}

		rid := zap.String("request_id", middlewarepkg.RequestIDFromContext(c))
		var storeErr repository.ValidationError
		if errors.As(err, &storeErr) {
			h.logger.Warn("contact message rejected by storage", rid, zap.Error(err))
			h.metrics.ObserveContact(metrics.OutcomeRejected)
			return Error(c, http.StatusBadRequest, storeErr.Message)
		}

		h.logger.Error("saving contact message failed", rid, zap.Error(err))
		h.metrics.ObserveContact(metrics.OutcomeError)
		return Error(c, http.StatusInternalServerError, msgContactFailed)
	}

	h.logger.Info("contact message stored",
		zap.String("request_id", middlewarepkg.RequestIDFromContext(c)),
		zap.String("contact_id", msg.ID.String()))
	h.metrics.ObserveContact(metrics.OutcomeSuccess)
	return Success(c, http.StatusCreated, msgContactReceived)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matsyaark/api/internal/dto"
)

// MessageResponse is returned on successful writes.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a single client-facing error description.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse lists every rejected form field.
type ValidationResponse struct {
	Errors []dto.FieldError `json:"errors"`
}

// Success sends a confirmation message.
func Success(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, MessageResponse{Message: message})
}

// Error sends an error description.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}

// ValidationFailed sends a 400 with the per-field errors.
func ValidationFailed(c echo.Context, errs []dto.FieldError) error {
	if errs == nil {
		errs = []dto.FieldError{}
	}
	return c.JSON(http.StatusBadRequest, ValidationResponse{Errors: errs})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "stuf-api/pkg/errors"
)

// MapToPublicError maps internal errors to public-facing HTTP status
// codes. Client errors keep the domain message; anything unrecognized
// is masked as an internal server error.
func MapToPublicError(err error) (int, string) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrInsufficientPerms), errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		return status, http.StatusText(http.StatusInternalServerError)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return status, appErr.Message
	}

	return status, http.StatusText(status)
}

// RespondWithMappedError logs server-side failures and responds with
// the mapped status and message.
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
	}
	return respondError(c, status, msg)
}

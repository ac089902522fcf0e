package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "stuf-api/pkg/errors"
)

// CustomHTTPErrorHandler handles errors that escape handlers and
// middleware. It maps sentinel errors to HTTP status codes, sanitizes
// internal errors, and logs with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrInsufficientPerms), errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Insufficient permissions"
		case errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			message = "Validation error"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			message = "Bad request"
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && code < http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: request_id=%s status=%d error=%v", requestID, code, err)
		message = "Internal server error"
	} else {
		c.Logger().Warnf("client error: request_id=%s status=%d error=%v", requestID, code, err)
	}

	if err := c.JSON(code, map[string]any{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}

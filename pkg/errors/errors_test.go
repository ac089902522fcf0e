package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "stuf-api/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	withCause := &apperrors.AppError{Message: "upload failed", Err: fmt.Errorf("bucket down")}
	assert.Equal(t, "upload failed: bucket down", withCause.Error())

	bare := &apperrors.AppError{Message: "upload failed"}
	assert.Equal(t, "upload failed", bare.Error())
}

func TestConstructors_WrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", apperrors.NotFound("x"), apperrors.ErrNotFound},
		{"unauthorized", apperrors.Unauthorized("x"), apperrors.ErrUnauthorized},
		{"forbidden", apperrors.Forbidden("x"), apperrors.ErrForbidden},
		{"bad request", apperrors.BadRequest("x"), apperrors.ErrBadRequest},
		{"validation", apperrors.Validation("x"), apperrors.ErrValidation},
		{"insufficient permissions", apperrors.InsufficientPermissions("x"), apperrors.ErrInsufficientPerms},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)

			var appErr *apperrors.AppError
			assert.ErrorAs(t, tt.err, &appErr)
			assert.Equal(t, "x", appErr.Message)
		})
	}
}

func TestOperationErrors_CarryBothSentinelAndCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")

	err := apperrors.Upload("storage error during upload", cause)
	assert.ErrorIs(t, err, apperrors.ErrUpload)
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, apperrors.Listing("x", cause), apperrors.ErrListing)
	assert.ErrorIs(t, apperrors.Download("x", cause), apperrors.ErrDownload)
	assert.ErrorIs(t, apperrors.Delete("x", cause), apperrors.ErrDelete)
	assert.ErrorIs(t, apperrors.Storage("x", cause), apperrors.ErrStorage)
}

func TestAppError_UnwrapThroughLayers(t *testing.T) {
	inner := apperrors.NotFound("file not found")
	outer := fmt.Errorf("download: %w", inner)

	assert.ErrorIs(t, outer, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(outer, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation error")
	ErrInternalServer    = errors.New("internal server error")
	ErrInsufficientPerms = errors.New("insufficient permissions")
	ErrAmbiguousToken    = errors.New("ambiguous token")
	ErrExpired           = errors.New("token expired")
	ErrStorage           = errors.New("storage error")
	ErrUpload            = errors.New("upload failed")
	ErrListing           = errors.New("listing failed")
	ErrDownload          = errors.New("download failed")
	ErrDelete            = errors.New("delete failed")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func InsufficientPermissions(msg string) *AppError {
	return &AppError{Code: "INSUFFICIENT_PERMISSIONS", Message: msg, Err: ErrInsufficientPerms}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func Storage(msg string, err error) *AppError {
	return &AppError{Code: "STORAGE_ERROR", Message: msg, Err: errors.Join(ErrStorage, err)}
}

func Upload(msg string, err error) *AppError {
	return &AppError{Code: "UPLOAD_ERROR", Message: msg, Err: errors.Join(ErrUpload, err)}
}

func Listing(msg string, err error) *AppError {
	return &AppError{Code: "LISTING_ERROR", Message: msg, Err: errors.Join(ErrListing, err)}
}

func Download(msg string, err error) *AppError {
	return &AppError{Code: "DOWNLOAD_ERROR", Message: msg, Err: errors.Join(ErrDownload, err)}
}

func Delete(msg string, err error) *AppError {
	return &AppError{Code: "DELETE_ERROR", Message: msg, Err: errors.Join(ErrDelete, err)}
}

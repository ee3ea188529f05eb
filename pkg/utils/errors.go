package utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrValidationFailed  = errors.New("validation failed")
	ErrNoUsableData      = errors.New("no usable data")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrExportFailed      = errors.New("export failed")
	ErrUploadFailed      = errors.New("upload failed")
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	cause error
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
		cause:   sentinelForCode(code),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match an AppError against the sentinel for its code.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Common error codes
const (
	ErrCodeUnknownIdentifier = "UNKNOWN_IDENTIFIER"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNoData            = "NO_DATA"
	ErrCodeSource            = "SOURCE_ERROR"
	ErrCodeExport            = "EXPORT_ERROR"
	ErrCodeUpload            = "UPLOAD_ERROR"
)

func sentinelForCode(code string) error {
	switch code {
	case ErrCodeUnknownIdentifier:
		return ErrUnknownIdentifier
	case ErrCodeValidation:
		return ErrValidationFailed
	case ErrCodeNoData:
		return ErrNoUsableData
	case ErrCodeSource:
		return ErrSourceUnavailable
	case ErrCodeExport:
		return ErrExportFailed
	case ErrCodeUpload:
		return ErrUploadFailed
	default:
		return nil
	}
}

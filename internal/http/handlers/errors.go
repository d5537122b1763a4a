// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). Codes give clients a
// stable, machine-readable taxonomy next to the human-readable `detail`.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror HTTP status semantics.
//   - Domain-specific codes name the rule or operation that failed.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_card",
//	  "detail": "This card already exists!"
//	}
package handlers

const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeRateLimited        = "too_many_requests"
	ErrCodeInternal           = "internal_error"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
	ErrCodeServiceUnavailable = "service_unavailable"

	// Cards
	ErrCodeInvalidCategory = "invalid_category"
	ErrCodeDuplicateCard   = "duplicate_card"
	ErrCodeEmptyPatch      = "empty_patch"
	ErrCodeCreateFailed    = "create_failed"
	ErrCodeListFailed      = "list_failed"
	ErrCodeUpdateFailed    = "update_failed"
	ErrCodeDeleteFailed    = "delete_failed"

	// Assets
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeFileTooLarge      = "file_too_large"
	ErrCodeImageProcessing   = "image_processing_failed"
	ErrCodeUploadFailed      = "upload_failed"
)

package assets

import "errors"

// Asset errors. Validation and processing failures are caused by client
// input; ErrUpload is a backend failure.
var (
	// ErrUnsupportedFormat is returned for extensions outside AllowedExtensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrImageProcessing wraps decode, resize, and encode failures.
	ErrImageProcessing = errors.New("error processing image")

	// ErrUpload wraps object storage write failures.
	ErrUpload = errors.New("error uploading file")
)

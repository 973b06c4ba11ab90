package fetch

import "errors"

var (
	ErrInvalidURL         = errors.New("invalid s3 url")
	ErrObjectNotFound     = errors.New("object not found")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrFailedToWriteFile  = errors.New("failed to write file")
)

package mosaic

import "errors"

// Error kinds. Failures are wrapped with context; test them with errors.Is.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrUnsupportedInput   = errors.New("unsupported input")
	ErrUnsupportedSurface = errors.New("unsupported surface")
	ErrWorkerFailure      = errors.New("worker failure")
	ErrSpriteFetchFailure = errors.New("sprite fetch failure")
	ErrRunInProgress      = errors.New("mosaic run already in progress")
)

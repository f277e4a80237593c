package directory

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed  = errors.New("directory store is closed")
	ErrWriteTimeout = errors.New("directory write timeout")
)

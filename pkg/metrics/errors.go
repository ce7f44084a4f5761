package metrics

import (
	"errors"
)

// ErrWriteFailed wraps failures to persist the registry to a textfile.
var ErrWriteFailed = errors.New("metrics write failed")

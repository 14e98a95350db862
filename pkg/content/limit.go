package content

import (
	"fmt"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
)

const bytesPerMB = 1024 * 1024

// SizeExceededError aborts a run whose output would cross the size limit
type SizeExceededError struct {
	LimitMB        float64
	AttemptedBytes int64
	Path           string
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("size limit of %.2f MB exceeded: adding %s brings the total to %d bytes",
		e.LimitMB, e.Path, e.AttemptedBytes)
}

// Unwrap exposes the SIZE_EXCEEDED code to errors.IsErrorCode
func (e *SizeExceededError) Unwrap() error {
	return errors.New(errors.ErrSizeExceeded, "size limit exceeded").
		WithDetail("limit_mb", e.LimitMB).
		WithDetail("attempted_bytes", e.AttemptedBytes).
		WithDetail("path", e.Path)
}

// Limiter tracks the cumulative size of a dump
type Limiter struct {
	limitMB    float64
	limitBytes int64
	total      int64
}

// NewLimiter creates a limiter; a limit of zero or less never trips
func NewLimiter(limitMB float64) *Limiter {
	l := &Limiter{limitMB: limitMB}
	if limitMB > 0 {
		l.limitBytes = int64(limitMB * bytesPerMB)
	}
	return l
}

// Reserve accounts for size bytes of path. It returns false when the file
// alone is larger than the whole limit and must be skipped, and a
// SizeExceededError when it would push a nonzero total over the limit.
func (l *Limiter) Reserve(path string, size int64) (bool, error) {
	if l.limitBytes <= 0 {
		l.total += size
		return true, nil
	}

	if size > l.limitBytes {
		logger := logging.GetLogger("content.limit")
		logger.Warn().
			Str("path", path).
			Int64("size", size).
			Float64("limit_mb", l.limitMB).
			Msg("File is larger than the whole size limit, skipping it")
		return false, nil
	}

	attempted := l.total + size
	if attempted > l.limitBytes {
		return false, &SizeExceededError{LimitMB: l.limitMB, AttemptedBytes: attempted, Path: path}
	}
	l.total = attempted
	return true, nil
}

// Total returns the bytes accounted so far
func (l *Limiter) Total() int64 {
	return l.total
}

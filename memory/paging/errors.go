package paging

import "github.com/pkg/errors"

// ErrInsufficientFrames indicates that a request could not reach its required
// residency, including the case where no other process holds a frame that
// could be reclaimed. It is recoverable: the caller retries on a later tick.
var ErrInsufficientFrames = errors.New("paging: insufficient frames")

func wrapInsufficient(format string, args ...any) error {
	return errors.Wrapf(ErrInsufficientFrames, format, args...)
}

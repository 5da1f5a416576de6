package freelist

import "github.com/pkg/errors"

var (
	// ErrNoSpace indicates that no hole is large enough for the request.
	// It is not fatal: the caller decides whether to retry later.
	ErrNoSpace = errors.New("freelist: no hole large enough")

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("freelist: size must be positive")
)

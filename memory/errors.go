package memory

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/memsim/memory/freelist"
	"github.com/joshuapare/memsim/memory/paging"
)

var (
	// ErrNoSpace is returned by the contiguous manager when no hole fits.
	ErrNoSpace = freelist.ErrNoSpace

	// ErrInsufficientFrames is returned by the paging managers when the
	// required residency cannot be reached.
	ErrInsufficientFrames = paging.ErrInsufficientFrames

	// ErrUnknownStrategy indicates an unrecognised strategy name.
	ErrUnknownStrategy = errors.New("memory: unknown strategy")

	// ErrBadOptions indicates an inconsistent memory geometry.
	ErrBadOptions = errors.New("memory: invalid options")
)

// Recoverable reports whether err is an allocation failure the caller may
// retry on a later tick.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNoSpace) || errors.Is(err, ErrInsufficientFrames)
}

package memory

import (
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects the allocation discipline of a simulation.
type Strategy uint8

const (
	// Infinite never runs out of memory and tracks nothing.
	Infinite Strategy = iota + 1
	// FirstFit is contiguous variable-partition allocation.
	FirstFit
	// Paged is whole-process frame allocation with LRU eviction.
	Paged
	// Virtual is partial-residency frame allocation with LRU eviction.
	Virtual
)

var strategyNames = map[Strategy]string{
	Infinite: "infinite",
	FirstFit: "first-fit",
	Paged:    "paged",
	Virtual:  "virtual",
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Infinite, FirstFit, Paged, Virtual}
}

// ParseStrategy parses the command-line name of a strategy.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for st, n := range strategyNames {
		if n == name {
			return st, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", s)
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return "unknown"
}

// UsesFrames reports whether the strategy manages memory as frames.
func (s Strategy) UsesFrames() bool { return s == Paged || s == Virtual }

// TracksMemory reports whether the strategy accounts for memory at all.
func (s Strategy) TracksMemory() bool { return s != Infinite && s != 0 }

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

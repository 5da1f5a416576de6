package sim

import (
	"bytes"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/memsim/internal/config"
	"github.com/joshuapare/memsim/internal/workload"
	"github.com/joshuapare/memsim/memory"
)

// Comparison is the result of one strategy in Compare.
type Comparison struct {
	Strategy memory.Strategy
	Summary  *Summary
	Trace    []byte
}

// Compare runs the same workload under each strategy concurrently. Every run
// gets its own copy of cfg with only the strategy changed, and its trace is
// captured in the result. Results keep the order of strategies.
func Compare(cfg *config.Config, procs []workload.Process, strategies []memory.Strategy, opts ...Option) ([]Comparison, error) {
	out := make([]Comparison, len(strategies))

	var g errgroup.Group
	for i, s := range strategies {
		c := *cfg
		c.Strategy = s

		var buf bytes.Buffer
		sm, err := New(&c, append(opts, WithOutput(&buf))...)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			sum, err := sm.Run(procs)
			if err != nil {
				return err
			}
			out[i] = Comparison{Strategy: s, Summary: sum, Trace: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

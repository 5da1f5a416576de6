package sim

import (
	"math"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/joshuapare/memsim/internal/trace"
	"github.com/joshuapare/memsim/internal/workload"
	"github.com/joshuapare/memsim/memory"
)

// Result is the outcome of one finished process.
type Result struct {
	Name       string
	Arrival    int
	Service    int
	Completion int
	Turnaround int     // Completion - Arrival
	Overhead   float64 // Turnaround / Service
}

func newResult(p workload.Process, completion int) Result {
	turnaround := completion - p.Arrival
	return Result{
		Name:       p.Name,
		Arrival:    p.Arrival,
		Service:    p.Service,
		Completion: completion,
		Turnaround: turnaround,
		Overhead:   float64(turnaround) / float64(p.Service),
	}
}

// Summary holds the statistics of a finished run.
type Summary struct {
	RunID    uuid.UUID
	Strategy memory.Strategy

	// Results in completion order.
	Results []Result

	Turnaround    int     // mean turnaround, rounded up
	MaxOverhead   float64 // largest overhead
	AvgOverhead   float64 // mean overhead, rounded to two decimals
	Makespan      int     // clock when the last process finished
	FramesEvicted int     // frames taken from other processes during dispatch
}

func summarize(id uuid.UUID, s memory.Strategy, results []Result, makespan int) *Summary {
	sum := &Summary{
		RunID:    id,
		Strategy: s,
		Results:  results,
		Makespan: makespan,
	}
	if len(results) == 0 {
		return sum
	}

	turnarounds := make(stats.Float64Data, len(results))
	overheads := make(stats.Float64Data, len(results))
	for i, r := range results {
		turnarounds[i] = float64(r.Turnaround)
		overheads[i] = r.Overhead
	}

	// Errors only occur on empty input, ruled out above.
	meanTurnaround, _ := stats.Mean(turnarounds)
	maxOverhead, _ := stats.Max(overheads)
	meanOverhead, _ := stats.Mean(overheads)
	avgOverhead, _ := stats.Round(meanOverhead, 2)

	sum.Turnaround = int(math.Ceil(meanTurnaround))
	sum.MaxOverhead = maxOverhead
	sum.AvgOverhead = avgOverhead
	return sum
}

// Statistics converts the summary to its trace record.
func (s *Summary) Statistics() trace.Statistics {
	return trace.Statistics{
		Turnaround:  s.Turnaround,
		MaxOverhead: s.MaxOverhead,
		AvgOverhead: s.AvgOverhead,
		Makespan:    s.Makespan,
	}
}

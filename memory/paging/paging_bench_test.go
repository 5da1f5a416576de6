package paging

import (
	"fmt"
	"testing"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

func benchmarkRoundRobin(b *testing.B, a allocator) {
	handles := make([]*proc.Handle, 64)
	for i := range handles {
		handles[i] = proc.NewHandle(fmt.Sprintf("P%d", i), 64+i*8)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		h := handles[i%len(handles)]
		h.Touch(i)
		if _, err := a.RequestAllocation(h, i); err != nil {
			b.Fatal(err)
		}
		if i%7 == 0 {
			a.Release(h, i)
		}
	}
}

// Benchmark_Paged_RoundRobin benchmarks whole-process eviction under
// constant memory pressure.
func Benchmark_Paged_RoundRobin(b *testing.B) {
	benchmarkRoundRobin(b, NewPaged(frame.NewTable(512, 4)))
}

// Benchmark_Virtual_RoundRobin benchmarks partial eviction under constant
// memory pressure.
func Benchmark_Virtual_RoundRobin(b *testing.B) {
	benchmarkRoundRobin(b, NewVirtual(frame.NewTable(512, 4)))
}

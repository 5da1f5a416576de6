// Package sim drives a round-robin dispatcher over a memory manager and
// records the resulting trace.
//
// Time is simulated: the clock starts at 0 and advances by one full quantum
// per dispatch, even when the running process needs less. Each Simulation
// owns its own manager, so independent simulations can run concurrently.
package sim

import (
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/memsim/internal/config"
	"github.com/joshuapare/memsim/internal/trace"
	"github.com/joshuapare/memsim/internal/workload"
	"github.com/joshuapare/memsim/memory"
	"github.com/joshuapare/memsim/memory/proc"
)

var (
	// ErrUnschedulable indicates a process the configured memory can never
	// hold, or a ready queue that can no longer make progress.
	ErrUnschedulable = errors.New("sim: unschedulable process")
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithOutput sets the trace destination. Default: io.Discard
func WithOutput(w io.Writer) Option {
	return func(s *Simulation) { s.out = w }
}

// WithLogger sets the logger for dispatcher and allocator events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Simulation) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id uuid.UUID) Option {
	return func(s *Simulation) { s.id = id }
}

// Simulation is one configured dispatcher run.
type Simulation struct {
	id  uuid.UUID
	cfg config.Config
	out io.Writer
	log *zap.Logger
}

// New validates cfg and prepares a simulation.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, errors.New("sim: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		id:  uuid.New(),
		cfg: *cfg,
		out: io.Discard,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.Stringer("run", s.id))
	return s, nil
}

// ID returns the run identifier.
func (s *Simulation) ID() uuid.UUID { return s.id }

// task is a process admitted to the dispatcher.
type task struct {
	proc      workload.Process
	h         *proc.Handle
	remaining int
}

// run holds the mutable state of one Run call.
type run struct {
	*Simulation

	mgr     memory.Manager
	printer *trace.Printer

	now     int
	pending []workload.Process
	ready   []*task
	results []Result
	evicted int
}

// Run executes the workload to completion and returns its summary. procs
// must be sorted by arrival, as workload.Load returns them.
func (s *Simulation) Run(procs []workload.Process) (*Summary, error) {
	mgr, err := memory.New(s.cfg.Strategy, s.cfg.MemoryOptions(s.log))
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		if !mgr.Admissible(p.Memory) {
			return nil, errors.Wrapf(ErrUnschedulable, "%s needs %d units under %s",
				p.Name, p.Memory, s.cfg.Strategy)
		}
	}

	r := &run{
		Simulation: s,
		mgr:        mgr,
		printer:    trace.New(s.out, trace.Options{Format: s.cfg.Output, Strategy: s.cfg.Strategy}),
		pending:    append([]workload.Process(nil), procs...),
	}
	s.log.Info("simulation started", append(s.cfg.Fields(), zap.Int("processes", len(procs)))...)

	if err := r.loop(); err != nil {
		return nil, err
	}

	sum := summarize(s.id, s.cfg.Strategy, r.results, r.now)
	sum.FramesEvicted = r.evicted
	if err := r.printer.Statistics(sum.Statistics()); err != nil {
		return nil, err
	}
	s.log.Info("simulation finished",
		zap.Int("makespan", sum.Makespan),
		zap.Int("turnaround", sum.Turnaround),
		zap.Int("frames_evicted", sum.FramesEvicted),
	)
	return sum, nil
}

func (r *run) loop() error {
	var running, last *task
	quantum := r.cfg.Quantum

	for len(r.pending) > 0 || len(r.ready) > 0 || running != nil {
		r.admit()

		if running == nil {
			t, err := r.dispatch()
			if err != nil {
				return err
			}
			if t == nil {
				if len(r.pending) == 0 {
					return errors.Wrapf(ErrUnschedulable, "%d ready processes cannot be allocated at t=%d",
						len(r.ready), r.now)
				}
				r.log.Debug("idle quantum", zap.Int("now", r.now), zap.Int("ready", len(r.ready)))
				r.now += quantum
				continue
			}
			running = t
		}

		if running != last {
			if err := r.printer.Running(r.runningEvent(running)); err != nil {
				return err
			}
		}
		running.h.Touch(r.now)
		running.remaining -= min(quantum, running.remaining)
		r.now += quantum
		r.admit()

		switch {
		case running.remaining == 0:
			if err := r.finish(running); err != nil {
				return err
			}
			running, last = nil, nil
		case len(r.ready) > 0:
			r.ready = append(r.ready, running)
			running, last = nil, running
		default:
			last = running
		}
	}
	return nil
}

// admit moves every pending process that has arrived to the ready queue.
func (r *run) admit() {
	for len(r.pending) > 0 && r.pending[0].Arrival <= r.now {
		p := r.pending[0]
		r.pending = r.pending[1:]
		r.ready = append(r.ready, &task{
			proc:      p,
			h:         proc.NewHandle(p.Name, p.Memory),
			remaining: p.Service,
		})
		r.log.Debug("admitted", zap.String("process", p.Name), zap.Int("now", r.now))
	}
}

// dispatch pops ready processes until one can be allocated. Processes that
// do not fit yet go to the back of the queue. Returns nil if none fits.
func (r *run) dispatch() (*task, error) {
	for n := len(r.ready); n > 0; n-- {
		t := r.ready[0]
		r.ready = r.ready[1:]

		evicted, err := r.mgr.RequestAllocation(t.h, r.now)
		if perr := r.printer.Evicted(r.now, evicted); perr != nil {
			return nil, perr
		}
		r.evicted += len(evicted)
		if err == nil {
			return t, nil
		}
		if !memory.Recoverable(err) {
			return nil, err
		}
		r.log.Debug("requeued", zap.String("process", t.proc.Name), zap.Int("now", r.now), zap.Error(err))
		r.ready = append(r.ready, t)
	}
	return nil, nil
}

func (r *run) finish(t *task) error {
	freed := r.mgr.Release(t.h, r.now)
	if r.cfg.Strategy.UsesFrames() {
		if err := r.printer.Evicted(r.now, freed); err != nil {
			return err
		}
	}
	if err := r.printer.Finished(r.now, t.proc.Name, len(r.ready)); err != nil {
		return err
	}
	r.results = append(r.results, newResult(t.proc, r.now))
	return nil
}

func (r *run) runningEvent(t *task) trace.Running {
	return trace.Running{
		Time:      r.now,
		Name:      t.proc.Name,
		Remaining: t.remaining,
		Usage:     r.mgr.UsagePercent(),
		Address:   t.h.BaseAddress(),
		Frames:    t.h.Frames(),
	}
}
